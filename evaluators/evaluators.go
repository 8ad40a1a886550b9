// Package evaluators provides the built-in evaluators for batch
// evaluation of RAG-style AI outputs.
//
// Most evaluators are model-graded: a judge model scores one aspect of
// a case against a fixed rubric on a 1-5 integer scale. The safety
// evaluators are service-backed instead, delegating to a project's
// content safety annotation service. f1_score is purely lexical and
// needs neither.
package evaluators

import (
	"fmt"

	"github.com/foundryeval/foundryeval-go/api/safety"
	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/judge"
)

// DefaultThreshold is the pass threshold for judged metrics when the
// configuration does not set one.
const DefaultThreshold = 3

// Options configures construction of the built-in evaluator set.
type Options struct {
	// Judge grades the model-backed metrics. Without it only f1_score
	// and the safety evaluators are available.
	Judge judge.Client

	// Safety is the project's annotation API. Without it the safety
	// evaluators are unavailable.
	Safety *safety.API

	// Threshold is the pass score for judged metrics. Zero means
	// DefaultThreshold.
	Threshold float64
}

// NewLinguisticSimilarity creates the custom linguistic similarity
// evaluator, a judged 1-5 metric over query, response and ground
// truth.
func NewLinguisticSimilarity(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(linguisticSimilarityDef, j, threshold)
}

// NewRetrieval creates the retrieved-context quality evaluator.
func NewRetrieval(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(retrievalDef, j, threshold)
}

// NewResponseCompleteness creates the ground-truth coverage evaluator.
func NewResponseCompleteness(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(responseCompletenessDef, j, threshold)
}

// NewRelevance creates the query relevance evaluator.
func NewRelevance(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(relevanceDef, j, threshold)
}

// NewCoherence creates the logical flow evaluator.
func NewCoherence(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(coherenceDef, j, threshold)
}

// NewFluency creates the language quality evaluator.
func NewFluency(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(fluencyDef, j, threshold)
}

// NewGroundedness creates the context support evaluator.
func NewGroundedness(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(groundednessDef, j, threshold)
}

// NewSimilarity creates the semantic similarity evaluator.
func NewSimilarity(j judge.Client, threshold float64) eval.Evaluator {
	return newJudged(similarityDef, j, threshold)
}

func newJudged(def metricDef, j judge.Client, threshold float64) eval.Evaluator {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return newPromptEvaluator(def, j, threshold)
}

// BuiltinNames returns the names of every built-in evaluator in
// sorted order, regardless of which ones the configuration can
// construct.
func BuiltinNames() []string {
	return []string{
		"coherence",
		"content_safety",
		"f1_score",
		"fluency",
		"groundedness",
		"hate_unfairness",
		"linguistic_similarity",
		"qa",
		"relevance",
		"response_completeness",
		"retrieval",
		"similarity",
	}
}

// Register adds every built-in evaluator that can be constructed from
// the options to the registry. Judge-backed evaluators need opts.Judge
// and the safety evaluators need opts.Safety; the rest are always
// registered.
func Register(reg *eval.Registry, opts Options) error {
	var evs []eval.Evaluator

	evs = append(evs, NewF1())

	if opts.Judge != nil {
		evs = append(evs,
			NewLinguisticSimilarity(opts.Judge, opts.Threshold),
			NewRetrieval(opts.Judge, opts.Threshold),
			NewResponseCompleteness(opts.Judge, opts.Threshold),
			NewRelevance(opts.Judge, opts.Threshold),
			NewCoherence(opts.Judge, opts.Threshold),
			NewFluency(opts.Judge, opts.Threshold),
			NewGroundedness(opts.Judge, opts.Threshold),
			NewSimilarity(opts.Judge, opts.Threshold),
			NewQA(opts.Judge, opts.Threshold),
		)
	}

	if opts.Safety != nil {
		evs = append(evs,
			NewContentSafety(opts.Safety),
			NewHateUnfairness(opts.Safety),
		)
	}

	for _, ev := range evs {
		if err := reg.Register(ev); err != nil {
			return fmt.Errorf("error registering %s: %w", ev.Name(), err)
		}
	}
	return nil
}
