package eval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestSummary_WriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	summary := &Summary{
		RunID: "run-abc",
		Metrics: map[string]*float64{
			"linguistic_similarity": floatPtr(5),
			"retrieval":             nil,
		},
		Rows: []Row{
			{Index: 0, Input: map[string]any{"query": "q1"}, Results: []RowScore{
				{Evaluator: "linguistic_similarity", Metric: "linguistic_similarity", Score: floatPtr(5), Explanation: "same meaning"},
			}},
			{Index: 1, Input: map[string]any{"query": "q2"}, Results: []RowScore{
				{Evaluator: "linguistic_similarity", Error: "judge timed out"},
			}},
		},
	}

	// Parent directories are created as needed.
	path := filepath.Join(t.TempDir(), "results", "evaluation_results.json")
	require.NoError(t, summary.WriteFile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "{\n  "), "artifact should be indented")

	var parsed Summary
	require.NoError(t, json.Unmarshal(b, &parsed))

	assert.Equal(t, "run-abc", parsed.RunID)
	assert.Len(t, parsed.Rows, 2)
	require.Contains(t, parsed.Metrics, "linguistic_similarity")
	require.Contains(t, parsed.Metrics, "retrieval")
	assert.Equal(t, 5.0, *parsed.Metrics["linguistic_similarity"])
	assert.Nil(t, parsed.Metrics["retrieval"], "no-data marker survives the round trip")

	// The failed case stays distinguishable from a low score.
	assert.Equal(t, "judge timed out", parsed.Rows[1].Results[0].Error)
	assert.Nil(t, parsed.Rows[1].Results[0].Score)
}

func TestSummary_String(t *testing.T) {
	t.Parallel()

	summary := &Summary{
		Name: "smoke",
		Metrics: map[string]*float64{
			"qa.coherence": floatPtr(4.25),
			"retrieval":    nil,
		},
		Rows: []Row{{}, {}, {}},
	}

	out := summary.String()
	assert.Contains(t, out, "EVALUATION SUMMARY")
	assert.Contains(t, out, strings.Repeat("=", 50))
	assert.Contains(t, out, "Run: smoke")
	assert.Contains(t, out, "qa.coherence: 4.2500")
	assert.Contains(t, out, "retrieval: no data")
	assert.Contains(t, out, "Evaluated 3 rows")
}

func TestSummary_EmptyRun(t *testing.T) {
	t.Parallel()

	summary := summarize("empty", []Evaluator{constantEvaluator("alpha", 1)}, nil, 3)

	require.Contains(t, summary.Metrics, "alpha")
	assert.Nil(t, summary.Metrics["alpha"])
	assert.NotNil(t, summary.Rows)
	assert.Empty(t, summary.Rows)
	assert.Contains(t, summary.String(), "alpha: no data")
	assert.Contains(t, summary.String(), "Evaluated 0 rows")
}

func TestSummary_WriteFileValidation(t *testing.T) {
	t.Parallel()

	err := (&Summary{}).WriteFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output path is required")
}

func TestSummary_Failures(t *testing.T) {
	t.Parallel()

	summary := &Summary{Rows: []Row{
		{Results: []RowScore{{Evaluator: "a", Score: floatPtr(1)}}},
		{Results: []RowScore{{Evaluator: "a", Error: "boom"}, {Evaluator: "b", Error: "boom"}}},
	}}
	assert.Equal(t, 2, summary.Failures())
}
