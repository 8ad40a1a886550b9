package eval

import "context"

// Evaluator scores a single case. Implementations range from local
// heuristics to model-graded rubrics and service-backed safety checks.
type Evaluator interface {
	// Name identifies the evaluator in results, metrics and logs.
	Name() string

	// Evaluate scores one case. A non-nil error marks the case as
	// failed for this evaluator; the batch keeps running.
	Evaluate(ctx context.Context, c Case) (Scores, error)
}

// Score is a single named measurement produced by an evaluator.
type Score struct {
	// Name is the metric name. Empty names default to the evaluator
	// name when results are recorded.
	Name string

	// Score is the measured value.
	Score float64

	// Explanation is the evaluator's reasoning for the score.
	// Optional.
	Explanation string

	// Passed reports whether the score cleared the configured
	// threshold. Nil when the evaluator has no pass notion.
	Passed *bool

	// Metadata is additional detail to attach to the result.
	// Optional.
	Metadata map[string]any
}

// Scores is a list of scores from a single evaluator invocation. Most
// evaluators return one score; composites like qa return several.
type Scores []Score

// S wraps a bare value in a Scores slice for simple evaluators.
//
//	return eval.S(1.0), nil
func S(value float64) Scores {
	return Scores{{Score: value}}
}

// NewEvaluator adapts a function to the Evaluator interface.
//
//	exact := eval.NewEvaluator("exact_match", func(_ context.Context, c eval.Case) (eval.Scores, error) {
//		if c.Fields["response"] == c.Fields["ground_truth"] {
//			return eval.S(1.0), nil
//		}
//		return eval.S(0.0), nil
//	})
func NewEvaluator(name string, fn func(ctx context.Context, c Case) (Scores, error)) Evaluator {
	return &evaluatorFunc{name: name, fn: fn}
}

type evaluatorFunc struct {
	name string
	fn   func(ctx context.Context, c Case) (Scores, error)
}

func (e *evaluatorFunc) Name() string { return e.name }

func (e *evaluatorFunc) Evaluate(ctx context.Context, c Case) (Scores, error) {
	return e.fn(ctx, c)
}
