// Package eval runs batch evaluations of AI application outputs.
//
// A batch evaluation runs every evaluator against every case in a
// dataset, aggregates per-metric means, and reports the results as a
// JSON artifact, a console summary and a link to the hosted run.
//
// An evaluation consists of three main components:
//   - [Dataset]: a finite, restartable iterator over test cases
//   - [Evaluator]: scores one case, returning one or more named scores
//   - [Summary]: the aggregated metrics and per-case rows of a run
//
// Cases are scored in dataset order. An evaluator failure marks its
// case as failed and the run continues; a dataset failure aborts the
// whole run. See [Run] for details.
package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/foundryeval/foundryeval-go/logger"
)

var (
	// Private error variables (users don't need to check these)
	errRun          = errors.New("run error")
	errEvaluator    = errors.New("evaluator error")
	errTarget       = errors.New("target error")
	errCaseIterator = errors.New("case iterator error")
)

// Opts defines the options for running a batch evaluation.
//
// Dataset can be a JSONL file opened with [OpenJSONL], in-memory cases
// created with [NewDataset], or a hosted dataset loaded with
// [OpenRemote].
type Opts struct {
	// Required
	Dataset    Dataset
	Evaluators []Evaluator

	// Optional
	Name        string     // Run display name (default: dataset name)
	Target      TargetFunc // Generates case outputs before scoring
	Threshold   int        // Pass threshold echoed into the summary
	Parallelism int        // Number of goroutines (default: 1)
	Quiet       bool       // Suppress console summary (default: false)

	Logger         logger.Logger            // Defaults to a no-op logger
	TracerProvider oteltrace.TracerProvider // Defaults to the global provider
}

// Case is a single test case flowing through a batch evaluation.
type Case struct {
	// Index is the 0-based position of the case in its dataset.
	Index int

	// Line is the 1-based source line or row number of the case.
	Line int

	// ID is the case identifier, if the dataset provides one.
	ID string

	// Fields holds the case payload, for example query, response,
	// context and ground_truth.
	Fields map[string]any
}

// Field returns the named field as a string, or "" when the field is
// missing or not a string.
func (c Case) Field(name string) string {
	v, _ := c.Fields[name].(string)
	return v
}

// WithFields returns a copy of the case with extra fields merged in.
// New values overwrite existing ones; the original case is unchanged.
func (c Case) WithFields(fields map[string]any) Case {
	merged := make(map[string]any, len(c.Fields)+len(fields))
	for k, v := range c.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.Fields = merged
	return c
}

// Run executes a batch evaluation and returns its summary.
//
// Every evaluator scores every case. A case whose evaluator returns an
// error is recorded as an explicit failure and the run continues, so
// each evaluator contributes exactly one result entry per case. A
// dataset that fails mid-iteration aborts the run with no summary.
//
// Unless opts.Quiet is set, the summary is printed when the run
// completes.
func Run(ctx context.Context, opts Opts) (*Summary, error) {
	if opts.Dataset == nil {
		return nil, fmt.Errorf("%w: Dataset is required", errRun)
	}
	if len(opts.Evaluators) == 0 {
		return nil, fmt.Errorf("%w: at least one Evaluator is required", errRun)
	}

	return newRunner(opts).run(ctx)
}

// runner is the execution engine for a batch evaluation.
type runner struct {
	name       string
	dataset    Dataset
	evaluators []Evaluator
	target     TargetFunc
	threshold  int
	goroutines int
	quiet      bool
	logger     logger.Logger
	tracer     oteltrace.Tracer
}

func newRunner(opts Opts) *runner {
	name := opts.Name
	if name == "" {
		name = opts.Dataset.Name()
	}

	goroutines := opts.Parallelism
	if goroutines < 1 {
		goroutines = 1
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &runner{
		name:       name,
		dataset:    opts.Dataset,
		evaluators: opts.Evaluators,
		target:     opts.Target,
		threshold:  opts.Threshold,
		goroutines: goroutines,
		quiet:      opts.Quiet,
		logger:     log,
		tracer:     tp.Tracer("foundryeval/eval"),
	}
}

func (r *runner) run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, "eval.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("eval.run.name", r.name),
		attribute.String("eval.dataset", r.dataset.Name()),
		attribute.Int("eval.evaluators", len(r.evaluators)),
	)

	// Scale buffer size with parallelism to avoid blocking, but cap at 100
	bufferSize := min(r.goroutines*2, 100)
	cases := make(chan Case, bufferSize)
	var rows lockedRows

	// Spawn our goroutines to score the cases.
	var wg sync.WaitGroup
	for i := 0; i < r.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range cases {
				rows.append(r.runCase(ctx, c))
			}
		}()
	}

	// Fill our channel with the cases. A dataset error stops the feed
	// and fails the whole run.
	var feedErr error
feed:
	for {
		c, err := r.dataset.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			feedErr = fmt.Errorf("%w: %w", errCaseIterator, err)
			break
		}
		select {
		case cases <- c:
		case <-ctx.Done():
			feedErr = ctx.Err()
			break feed
		}
	}
	close(cases)

	// Wait for in-flight cases to finish.
	wg.Wait()

	if feedErr != nil {
		recordSpanError(span, feedErr)
		return nil, feedErr
	}

	summary := summarize(r.name, r.evaluators, rows.sorted(), r.threshold)
	summary.RunID = uuid.NewString()
	summary.Elapsed = time.Since(start)

	span.SetAttributes(attribute.Int("eval.cases", len(summary.Rows)))

	// Print result summary unless quiet
	if !r.quiet {
		fmt.Println(summary.String())
	}

	return summary, nil
}

// runCase scores a single case with every evaluator and returns its
// result row.
func (r *runner) runCase(ctx context.Context, c Case) Row {
	ctx, span := r.tracer.Start(ctx, "eval.case")
	defer span.End()
	span.SetAttributes(
		attribute.Int("eval.case.index", c.Index),
		attribute.String("eval.case.id", c.ID),
	)

	row := Row{Index: c.Index, Line: c.Line, ID: c.ID}

	if r.target != nil {
		out, err := r.runTarget(ctx, c)
		if err != nil {
			// The case has no output to score, so every evaluator
			// records the same failure. Counts stay intact.
			werr := fmt.Errorf("%w: %w", errTarget, err)
			recordSpanError(span, werr)
			row.Input = c.Fields
			for _, ev := range r.evaluators {
				row.Results = append(row.Results, RowScore{Evaluator: ev.Name(), Error: werr.Error()})
			}
			return row
		}
		c = c.WithFields(out)
	}
	row.Input = c.Fields

	for _, ev := range r.evaluators {
		row.Results = append(row.Results, r.runEvaluator(ctx, ev, c)...)
	}

	if err := setJSONAttr(span, "eval.input_json", c.Fields); err != nil {
		r.logger.Warn("failed to record case input", "case", c.Index, "error", err)
	}

	return row
}

// runTarget executes the target function and creates a target span.
func (r *runner) runTarget(ctx context.Context, c Case) (map[string]any, error) {
	ctx, span := r.tracer.Start(ctx, "eval.target")
	defer span.End()

	out, err := r.target(ctx, c)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	if err := setJSONAttr(span, "eval.output_json", out); err != nil {
		r.logger.Warn("failed to record target output", "case", c.Index, "error", err)
	}
	return out, nil
}

// runEvaluator scores one case with one evaluator. Failures become
// explicit result entries rather than aborting the run.
func (r *runner) runEvaluator(ctx context.Context, ev Evaluator, c Case) (results []RowScore) {
	ctx, span := r.tracer.Start(ctx, "eval.score")
	defer span.End()
	span.SetAttributes(attribute.String("eval.evaluator", ev.Name()))

	// A panicking evaluator fails its own entry for this case, like
	// any other evaluator error.
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			recordSpanError(span, err)
			r.logger.Error("evaluator panicked",
				"evaluator", ev.Name(),
				"case", c.Index,
				"error", err,
			)
			results = []RowScore{{Evaluator: ev.Name(), Error: err.Error()}}
		}
	}()

	scores, err := ev.Evaluate(ctx, c)
	if err == nil && len(scores) == 0 {
		err = &MalformedOutputError{Evaluator: ev.Name(), Reason: "evaluator returned no scores"}
	}
	if err != nil {
		werr := fmt.Errorf("%w: %s: %w", errEvaluator, ev.Name(), err)
		recordSpanError(span, werr)
		r.logger.Warn("evaluator failed",
			"evaluator", ev.Name(),
			"case", c.Index,
			"error", err,
		)
		return []RowScore{{Evaluator: ev.Name(), Error: err.Error()}}
	}

	results = make([]RowScore, 0, len(scores))
	valsByName := make(map[string]float64, len(scores))
	for _, score := range scores {
		name := score.Name
		if name == "" {
			name = ev.Name()
		}
		value := score.Score
		results = append(results, RowScore{
			Evaluator:   ev.Name(),
			Metric:      name,
			Score:       &value,
			Explanation: score.Explanation,
			Passed:      score.Passed,
		})
		valsByName[name] = score.Score
	}

	if err := setJSONAttr(span, "eval.scores", valsByName); err != nil {
		r.logger.Warn("failed to record scores", "evaluator", ev.Name(), "error", err)
	}

	return results
}

// Helper functions

func setJSONAttr(span oteltrace.Span, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String(key, string(b)))
	return nil
}

func recordSpanError(span oteltrace.Span, err error) {
	// hardcode the error type when we know what it is. by default otel
	// would show *fmt.wrapErrors as the type, which isn't super nice to
	// look at. this keeps errors.Is() working while showing a readable
	// type in trace viewers.
	var errType string
	switch {
	case errors.Is(err, errEvaluator):
		errType = "ErrEvaluator"
	case errors.Is(err, errTarget):
		errType = "ErrTarget"
	case errors.Is(err, errCaseIterator):
		errType = "ErrCaseIterator"
	case errors.Is(err, errRun):
		errType = "ErrRun"
	default:
		errType = fmt.Sprintf("%T", err)
	}

	span.AddEvent("exception", oteltrace.WithAttributes(
		attribute.String("exception.type", errType),
		attribute.String("exception.message", err.Error()),
	))
	span.SetStatus(codes.Error, err.Error())
}

// lockedRows is a thread-safe list of result rows.
type lockedRows struct {
	mu   sync.Mutex
	rows []Row
}

func (l *lockedRows) append(row Row) {
	l.mu.Lock()
	l.rows = append(l.rows, row)
	l.mu.Unlock()
}

// sorted returns the rows in dataset order.
func (l *lockedRows) sorted() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	sort.Slice(l.rows, func(i, j int) bool {
		return l.rows[i].Index < l.rows[j].Index
	})
	return l.rows
}
