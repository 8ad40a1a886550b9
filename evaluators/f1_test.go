package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundryeval/foundryeval-go/eval"
)

func TestF1(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		response    string
		groundTruth string
		want        float64
	}{
		{"exact match", "Paris is the capital", "Paris is the capital", 1},
		{"case and punctuation ignored", "Paris, is the CAPITAL!", "paris is the capital", 1},
		{"no overlap", "blue whale", "red fox", 0},
		{"both empty", "", "", 1},
		{"empty response", "", "Paris", 0},
		{"empty ground truth", "Paris", "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, f1(tc.response, tc.groundTruth), 1e-9)
		})
	}
}

func TestF1_PartialOverlap(t *testing.T) {
	t.Parallel()

	// 2 common tokens, 2 predicted, 4 truth: p=1, r=0.5, f1=2/3.
	got := f1("the capital", "the capital of france")
	assert.InDelta(t, 2.0/3.0, got, 1e-9)
}

func TestF1_RepeatedTokens(t *testing.T) {
	t.Parallel()

	// Overlap is a multiset intersection: "very" matches only twice.
	got := f1("very very very good", "very very good")
	assert.InDelta(t, 2*(3.0/4.0)*(1.0)/((3.0/4.0)+1.0), got, 1e-9)
}

func TestF1Evaluator(t *testing.T) {
	t.Parallel()

	ev := NewF1()
	assert.Equal(t, "f1_score", ev.Name())

	scores, err := ev.Evaluate(context.Background(), eval.Case{Fields: map[string]any{
		"query":        "q",
		"response":     "Paris is the capital of France",
		"ground_truth": "Paris is the capital of France",
	}})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "f1_score", scores[0].Name)
	assert.Equal(t, 1.0, scores[0].Score)
	assert.Nil(t, scores[0].Passed)
}
