package evaluators

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/judge"
)

// qaEvaluator is the composite question-answering evaluator. It runs
// groundedness, relevance, coherence, fluency and similarity
// concurrently, adds lexical F1, and reports every score under the
// "qa." namespace.
type qaEvaluator struct {
	parts []eval.Evaluator
}

// NewQA creates the composite QA evaluator.
func NewQA(j judge.Client, threshold float64) eval.Evaluator {
	return &qaEvaluator{
		parts: []eval.Evaluator{
			NewGroundedness(j, threshold),
			NewRelevance(j, threshold),
			NewCoherence(j, threshold),
			NewFluency(j, threshold),
			NewSimilarity(j, threshold),
			NewF1(),
		},
	}
}

func (q *qaEvaluator) Name() string { return "qa" }

// Evaluate fans the sub-metrics out over one errgroup. A sub-metric
// failure fails the whole composite for the case; the batch runner
// records it and keeps going.
func (q *qaEvaluator) Evaluate(ctx context.Context, c eval.Case) (eval.Scores, error) {
	var mu sync.Mutex
	scores := make(eval.Scores, 0, len(q.parts))

	g, ctx := errgroup.WithContext(ctx)
	for _, part := range q.parts {
		g.Go(func() error {
			partScores, err := part.Evaluate(ctx, c)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range partScores {
				s.Name = "qa." + s.Name
				scores = append(scores, s)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
