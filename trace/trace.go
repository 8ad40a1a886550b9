// Package trace configures OpenTelemetry tracing for evaluation runs.
//
// The batch runner records a span per run, case, target call and
// evaluator invocation, and the judge HTTP clients can be wrapped to
// record llm.chat spans. This package only wires up where those spans
// go.
package trace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Exporter names accepted by Options.Exporter.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// DefaultServiceName identifies this harness in trace backends.
const DefaultServiceName = "foundryeval"

// Options configures a tracer provider.
type Options struct {
	// Exporter selects where spans go: otlp, stdout or none.
	// Defaults to none, which records nothing.
	Exporter string

	// Endpoint overrides the OTLP HTTP endpoint URL. Empty defers to
	// the exporter's OTEL_EXPORTER_OTLP_* environment handling.
	Endpoint string

	// ServiceName overrides the service.name resource attribute.
	ServiceName string
}

// NewTracerProvider creates an OTel SDK tracer provider for the
// selected exporter. The caller owns shutdown:
//
//	tp, err := trace.NewTracerProvider(ctx, trace.Options{Exporter: trace.ExporterOTLP})
//	defer func() { _ = tp.Shutdown(ctx) }()
func NewTracerProvider(ctx context.Context, opts Options) (*sdktrace.TracerProvider, error) {
	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	switch opts.Exporter {
	case "", ExporterNone:
		return sdktrace.NewTracerProvider(sdktrace.WithResource(res)), nil

	case ExporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("error creating stdout exporter: %w", err)
		}
		return sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		), nil

	case ExporterOTLP:
		var exporterOpts []otlptracehttp.Option
		if opts.Endpoint != "" {
			exporterOpts = append(exporterOpts, otlptracehttp.WithEndpointURL(opts.Endpoint))
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("error creating OTLP exporter: %w", err)
		}
		return sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		), nil

	default:
		return nil, fmt.Errorf("unknown trace exporter %q", opts.Exporter)
	}
}
