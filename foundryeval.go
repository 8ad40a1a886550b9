// Package foundryeval is a batch evaluation harness for RAG-style AI
// outputs, judged by Azure OpenAI (or another chat model) and
// optionally published to an Azure AI Foundry project.
//
// The Client bundles the configuration, judge backend, project API and
// evaluator registry so the common flow is a few calls:
//
//	client, err := foundryeval.New(ctx)
//	dataset, err := client.OpenDataset()
//	evaluators, err := client.Evaluators("retrieval", "linguistic_similarity")
//	summary, err := client.Run(ctx, eval.Opts{Dataset: dataset, Evaluators: evaluators})
//
// The eval, evaluators, judge and api packages stay usable on their
// own for anything the bundle does not cover.
package foundryeval

import (
	"context"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/foundryeval/foundryeval-go/api"
	"github.com/foundryeval/foundryeval-go/api/safety"
	"github.com/foundryeval/foundryeval-go/config"
	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/evaluators"
	"github.com/foundryeval/foundryeval-go/internal/auth"
	"github.com/foundryeval/foundryeval-go/judge"
	"github.com/foundryeval/foundryeval-go/logger"
)

// Client bundles the pieces of an evaluation run.
type Client struct {
	cfg      *config.Config
	log      logger.Logger
	judge    judge.Client
	api      *api.API
	session  *auth.Session
	registry *eval.Registry
	tp       oteltrace.TracerProvider
}

// Option configures a Client.
type Option func(*options)

type options struct {
	cfg   *config.Config
	log   logger.Logger
	judge judge.Client
	tp    oteltrace.TracerProvider
}

// WithConfig supplies configuration instead of reading the
// environment.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger overrides the zap logger built from the configured log
// level.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithJudge overrides the judge backend built from the configuration.
// Mainly for tests and custom providers.
func WithJudge(j judge.Client) Option {
	return func(o *options) { o.judge = j }
}

// WithTracerProvider sets the tracer provider used for run spans.
// Defaults to the global provider.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// New creates a Client. Without WithConfig the configuration is read
// from the environment and validated; a missing required setting is a
// *config.ConfigurationError.
//
// When the configuration carries a project API key, a background
// session resolves the project identity so Upload can build studio
// links. Close releases it.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.FromEnv(); err != nil {
			return nil, err
		}
	}
	if err := cfg.IsValid(); err != nil {
		return nil, err
	}

	log := o.log
	if log == nil {
		log = logger.New(cfg.LogLevel)
	}

	j := o.judge
	if j == nil {
		var err error
		if j, err = judge.FromConfig(ctx, cfg); err != nil {
			return nil, fmt.Errorf("error creating judge: %w", err)
		}
	}

	c := &Client{
		cfg:      cfg,
		log:      log,
		judge:    j,
		registry: eval.NewRegistry(),
		tp:       o.tp,
	}

	var safetyAPI *safety.API
	if cfg.UploadEnabled() {
		session, err := auth.NewSession(ctx, auth.Options{
			Endpoint:   cfg.ProjectEndpoint,
			APIKey:     cfg.ProjectAPIKey,
			APIVersion: api.DefaultAPIVersion,
			Logger:     log,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating project session: %w", err)
		}
		c.session = session
		c.api = api.NewClient(cfg.ProjectEndpoint, cfg.ProjectAPIKey, api.WithLogger(log))
		safetyAPI = c.api.Safety()
	}

	if err := evaluators.Register(c.registry, evaluators.Options{
		Judge:     j,
		Safety:    safetyAPI,
		Threshold: float64(cfg.Threshold),
	}); err != nil {
		return nil, err
	}

	return c, nil
}

// Config returns the client's configuration.
func (c *Client) Config() *config.Config { return c.cfg }

// Judge returns the judge backend grading the model-backed metrics.
func (c *Client) Judge() judge.Client { return c.judge }

// Registry returns the evaluator registry, pre-populated with the
// built-in evaluators the configuration supports. Custom evaluators
// can be registered alongside them.
func (c *Client) Registry() *eval.Registry { return c.registry }

// API returns the project API client, or nil when no project API key
// is configured.
func (c *Client) API() *api.API { return c.api }

// OpenDataset opens the configured dataset file.
func (c *Client) OpenDataset() (eval.Dataset, error) {
	return eval.OpenFile(c.cfg.DataPath)
}

// Evaluators resolves evaluator names against the registry. With no
// names every registered evaluator is returned.
func (c *Client) Evaluators(names ...string) ([]eval.Evaluator, error) {
	return c.registry.Select(names...)
}

// Run executes a batch evaluation, filling the logger, tracer provider
// and threshold from the client when the options leave them unset.
func (c *Client) Run(ctx context.Context, opts eval.Opts) (*eval.Summary, error) {
	if opts.Logger == nil {
		opts.Logger = c.log
	}
	if opts.TracerProvider == nil && c.tp != nil {
		opts.TracerProvider = c.tp
	}
	if opts.Threshold == 0 {
		opts.Threshold = c.cfg.Threshold
	}
	return eval.Run(ctx, opts)
}

// Upload publishes a summary to the configured project and returns the
// studio results link. The summary's StudioURL is set on success.
// Upload fails when the client has no project API key.
func (c *Client) Upload(ctx context.Context, s *eval.Summary) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("upload requires AZURE_AI_PROJECT_API_KEY")
	}

	runID, err := eval.NewUploader(c.api, c.log).Upload(ctx, s)
	if err != nil {
		return "", err
	}

	// The studio link needs the resolved project identity.
	if err := c.session.Login(ctx); err != nil {
		return "", fmt.Errorf("error resolving project: %w", err)
	}
	projectID, _ := c.session.Project()

	s.StudioURL = eval.StudioURL(projectID, runID)
	return s.StudioURL, nil
}

// Close releases the background project session, if any.
func (c *Client) Close() {
	if c.session != nil {
		c.session.Close()
	}
}
