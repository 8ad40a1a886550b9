package evaluators

import (
	"context"
	"strings"
	"unicode"

	"github.com/foundryeval/foundryeval-go/eval"
)

// f1Evaluator computes token-overlap F1 between the response and the
// ground truth. It is purely lexical and scores in [0, 1].
type f1Evaluator struct{}

// NewF1 creates the lexical F1 evaluator.
func NewF1() eval.Evaluator {
	return f1Evaluator{}
}

func (f1Evaluator) Name() string { return "f1_score" }

func (f f1Evaluator) Evaluate(_ context.Context, c eval.Case) (eval.Scores, error) {
	in, err := decodeInputs(c)
	if err != nil {
		return nil, &eval.InvocationError{Evaluator: f.Name(), Err: err}
	}
	return eval.Scores{{
		Name:  f.Name(),
		Score: f1(in.Response, in.GroundTruth),
	}}, nil
}

// f1 computes the harmonic mean of token precision and recall. Both
// texts empty counts as a perfect match; one empty as a total miss.
func f1(response, groundTruth string) float64 {
	pred := tokenize(response)
	truth := tokenize(groundTruth)

	if len(pred) == 0 && len(truth) == 0 {
		return 1
	}
	if len(pred) == 0 || len(truth) == 0 {
		return 0
	}

	counts := make(map[string]int, len(truth))
	for _, tok := range truth {
		counts[tok]++
	}

	common := 0
	for _, tok := range pred {
		if counts[tok] > 0 {
			counts[tok]--
			common++
		}
	}
	if common == 0 {
		return 0
	}

	precision := float64(common) / float64(len(pred))
	recall := float64(common) / float64(len(truth))
	return 2 * precision * recall / (precision + recall)
}

// tokenize lowercases the text and splits it into alphanumeric runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
