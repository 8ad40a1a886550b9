package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantEvaluator returns the same score for every case.
func constantEvaluator(name string, value float64) Evaluator {
	return NewEvaluator(name, func(_ context.Context, _ Case) (Scores, error) {
		return S(value), nil
	})
}

func fieldsDataset(fields ...map[string]any) Dataset {
	cases := make([]Case, 0, len(fields))
	for _, f := range fields {
		cases = append(cases, Case{Fields: f})
	}
	return NewDataset(cases)
}

func threeCases() Dataset {
	return fieldsDataset(
		map[string]any{"query": "q1", "response": "r1", "ground_truth": "g1"},
		map[string]any{"query": "q2", "response": "r2", "ground_truth": "g2"},
		map[string]any{"query": "q3", "response": "r3", "ground_truth": "g3"},
	)
}

func TestRun_MeanAggregation(t *testing.T) {
	t.Parallel()

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{constantEvaluator("linguistic_similarity", 5)},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 3)
	require.NotNil(t, summary.Metrics["linguistic_similarity"])
	assert.Equal(t, 5.0, *summary.Metrics["linguistic_similarity"])

	for i, row := range summary.Rows {
		assert.Equal(t, i, row.Index)
		require.Len(t, row.Results, 1)
		require.NotNil(t, row.Results[i%1].Score)
		assert.Equal(t, 5.0, *row.Results[0].Score)
	}
}

func TestRun_EveryEvaluatorEveryCase(t *testing.T) {
	t.Parallel()

	summary, err := Run(context.Background(), Opts{
		Dataset: threeCases(),
		Evaluators: []Evaluator{
			constantEvaluator("alpha", 1),
			constantEvaluator("beta", 3),
		},
		Quiet: true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 3)
	for _, row := range summary.Rows {
		require.Len(t, row.Results, 2)
		assert.Equal(t, "alpha", row.Results[0].Evaluator)
		assert.Equal(t, "beta", row.Results[1].Evaluator)
	}

	require.NotNil(t, summary.Metrics["alpha"])
	require.NotNil(t, summary.Metrics["beta"])
	assert.Equal(t, 1.0, *summary.Metrics["alpha"])
	assert.Equal(t, 3.0, *summary.Metrics["beta"])
}

func TestRun_FailureIsolation(t *testing.T) {
	t.Parallel()

	flaky := NewEvaluator("flaky", func(_ context.Context, c Case) (Scores, error) {
		if c.Index == 1 {
			return nil, &InvocationError{Evaluator: "flaky", Err: fmt.Errorf("judge timed out")}
		}
		return S(4), nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{flaky},
		Quiet:      true,
	})
	require.NoError(t, err)

	// The failed case stays in the rows as an explicit failure.
	require.Len(t, summary.Rows, 3)
	require.Len(t, summary.Rows[1].Results, 1)
	failed := summary.Rows[1].Results[0]
	assert.Nil(t, failed.Score)
	assert.Contains(t, failed.Error, "judge timed out")

	// The mean covers only the cases that scored.
	require.NotNil(t, summary.Metrics["flaky"])
	assert.Equal(t, 4.0, *summary.Metrics["flaky"])
	assert.Equal(t, 1, summary.Failures())
}

func TestRun_PanicIsolation(t *testing.T) {
	t.Parallel()

	panicky := NewEvaluator("panicky", func(_ context.Context, c Case) (Scores, error) {
		if c.Index == 1 {
			panic("nil map write")
		}
		return S(3), nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{panicky, constantEvaluator("steady", 5)},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 3)
	require.Len(t, summary.Rows[1].Results, 2)
	for _, res := range summary.Rows[1].Results {
		switch res.Evaluator {
		case "panicky":
			assert.Nil(t, res.Score)
			assert.Contains(t, res.Error, "nil map write")
		case "steady":
			require.NotNil(t, res.Score)
			assert.Equal(t, 5.0, *res.Score)
		}
	}

	require.NotNil(t, summary.Metrics["panicky"])
	assert.Equal(t, 3.0, *summary.Metrics["panicky"])
	assert.Equal(t, 1, summary.Failures())
}

func TestRun_AllCasesFailing(t *testing.T) {
	t.Parallel()

	broken := NewEvaluator("broken", func(_ context.Context, _ Case) (Scores, error) {
		return nil, fmt.Errorf("no judge configured")
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{broken},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 3)
	assert.Equal(t, 3, summary.Failures())

	// No data for the metric, recorded explicitly.
	v, ok := summary.Metrics["broken"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestRun_EmptyDataset(t *testing.T) {
	t.Parallel()

	summary, err := Run(context.Background(), Opts{
		Dataset:    NewDataset(nil),
		Evaluators: []Evaluator{constantEvaluator("exact_match", 1)},
		Quiet:      true,
	})
	require.NoError(t, err)

	assert.Empty(t, summary.Rows)
	v, ok := summary.Metrics["exact_match"]
	require.True(t, ok)
	assert.Nil(t, v)
}

// failingDataset fails iteration at a fixed position.
type failingDataset struct {
	cases  []Case
	failAt int
	pos    int
}

func (d *failingDataset) Next() (Case, error) {
	if d.pos == d.failAt {
		return Case{}, &DataFormatError{Dataset: "eval_data.jsonl", Line: d.pos + 1, Err: fmt.Errorf("invalid character 'q'")}
	}
	if d.pos >= len(d.cases) {
		return Case{}, io.EOF
	}
	c := d.cases[d.pos]
	c.Index = d.pos
	d.pos++
	return c, nil
}

func (d *failingDataset) Reset() error { d.pos = 0; return nil }
func (d *failingDataset) Name() string { return "eval_data.jsonl" }

func TestRun_DatasetErrorAborts(t *testing.T) {
	t.Parallel()

	ds := &failingDataset{
		cases:  []Case{{Fields: map[string]any{"query": "q1"}}, {Fields: map[string]any{"query": "q2"}}},
		failAt: 1,
	}

	summary, err := Run(context.Background(), Opts{
		Dataset:    ds,
		Evaluators: []Evaluator{constantEvaluator("exact_match", 1)},
		Quiet:      true,
	})
	require.Error(t, err)
	assert.Nil(t, summary)

	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, 2, dfe.Line)
}

func TestRun_TargetGeneratesResponse(t *testing.T) {
	t.Parallel()

	target := T(func(_ context.Context, query string) (string, error) {
		return "answer to " + query, nil
	})

	echo := NewEvaluator("echo", func(_ context.Context, c Case) (Scores, error) {
		if c.Field("response") == "" {
			return nil, fmt.Errorf("no response to score")
		}
		return S(1), nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    fieldsDataset(map[string]any{"query": "q1"}),
		Evaluators: []Evaluator{echo},
		Target:     target,
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "answer to q1", summary.Rows[0].Input["response"])
	require.NotNil(t, summary.Metrics["echo"])
	assert.Equal(t, 1.0, *summary.Metrics["echo"])
}

func TestRun_TargetFailure(t *testing.T) {
	t.Parallel()

	target := TargetFunc(func(_ context.Context, c Case) (map[string]any, error) {
		if c.Index == 0 {
			return nil, fmt.Errorf("upstream unavailable")
		}
		return map[string]any{"response": "ok"}, nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset: fieldsDataset(
			map[string]any{"query": "q1"},
			map[string]any{"query": "q2"},
		),
		Evaluators: []Evaluator{
			constantEvaluator("alpha", 1),
			constantEvaluator("beta", 2),
		},
		Target: target,
		Quiet:  true,
	})
	require.NoError(t, err)

	// Every evaluator still contributes an entry for the failed case.
	require.Len(t, summary.Rows, 2)
	require.Len(t, summary.Rows[0].Results, 2)
	for _, res := range summary.Rows[0].Results {
		assert.Nil(t, res.Score)
		assert.Contains(t, res.Error, "upstream unavailable")
	}
	require.Len(t, summary.Rows[1].Results, 2)
	for _, res := range summary.Rows[1].Results {
		assert.NotNil(t, res.Score)
	}
}

func TestRun_Parallel(t *testing.T) {
	t.Parallel()

	var cases []Case
	for i := 0; i < 20; i++ {
		cases = append(cases, Case{Fields: map[string]any{"query": fmt.Sprintf("q%d", i)}})
	}

	summary, err := Run(context.Background(), Opts{
		Dataset:     NewDataset(cases),
		Evaluators:  []Evaluator{constantEvaluator("exact_match", 1)},
		Parallelism: 4,
		Quiet:       true,
	})
	require.NoError(t, err)

	// Rows come back in dataset order regardless of scheduling.
	require.Len(t, summary.Rows, 20)
	for i, row := range summary.Rows {
		assert.Equal(t, i, row.Index)
	}
}

func TestRun_MultipleScores(t *testing.T) {
	t.Parallel()

	composite := NewEvaluator("qa", func(_ context.Context, _ Case) (Scores, error) {
		return Scores{
			{Name: "qa.coherence", Score: 4},
			{Name: "qa.fluency", Score: 5},
		}, nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{composite},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.NotNil(t, summary.Metrics["qa.coherence"])
	require.NotNil(t, summary.Metrics["qa.fluency"])
	assert.Equal(t, 4.0, *summary.Metrics["qa.coherence"])
	assert.Equal(t, 5.0, *summary.Metrics["qa.fluency"])

	for _, row := range summary.Rows {
		require.Len(t, row.Results, 2)
	}
}

func TestRun_PassRate(t *testing.T) {
	t.Parallel()

	gated := NewEvaluator("relevance", func(_ context.Context, c Case) (Scores, error) {
		score := float64(c.Index + 2) // 2, 3, 4
		passed := score >= 3
		return Scores{{Score: score, Passed: &passed}}, nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    threeCases(),
		Evaluators: []Evaluator{gated},
		Threshold:  3,
		Quiet:      true,
	})
	require.NoError(t, err)

	require.NotNil(t, summary.Metrics["relevance"])
	assert.Equal(t, 3.0, *summary.Metrics["relevance"])
	require.NotNil(t, summary.Metrics["relevance_pass_rate"])
	assert.InDelta(t, 2.0/3.0, *summary.Metrics["relevance_pass_rate"], 1e-9)
}

func TestRun_EmptyScoresIsMalformed(t *testing.T) {
	t.Parallel()

	silent := NewEvaluator("silent", func(_ context.Context, _ Case) (Scores, error) {
		return Scores{}, nil
	})

	summary, err := Run(context.Background(), Opts{
		Dataset:    fieldsDataset(map[string]any{"query": "q1"}),
		Evaluators: []Evaluator{silent},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	require.Len(t, summary.Rows[0].Results, 1)
	assert.Contains(t, summary.Rows[0].Results[0].Error, "returned no scores")
}

func TestRun_UnnamedScoreUsesEvaluatorName(t *testing.T) {
	t.Parallel()

	summary, err := Run(context.Background(), Opts{
		Dataset:    fieldsDataset(map[string]any{"query": "q1"}),
		Evaluators: []Evaluator{constantEvaluator("retrieval", 4)},
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows[0].Results, 1)
	assert.Equal(t, "retrieval", summary.Rows[0].Results[0].Metric)
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Opts{
		Evaluators: []Evaluator{constantEvaluator("exact_match", 1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dataset is required")

	_, err = Run(context.Background(), Opts{Dataset: NewDataset(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Evaluator is required")
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocked := NewEvaluator("blocked", func(ctx context.Context, _ Case) (Scores, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	var cases []Case
	for i := 0; i < 500; i++ {
		cases = append(cases, Case{Fields: map[string]any{"query": "q"}})
	}

	_, err := Run(ctx, Opts{
		Dataset:    NewDataset(cases),
		Evaluators: []Evaluator{blocked},
		Quiet:      true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCase_Field(t *testing.T) {
	t.Parallel()

	c := Case{Fields: map[string]any{"query": "hello", "count": 3}}
	assert.Equal(t, "hello", c.Field("query"))
	assert.Equal(t, "", c.Field("count"))
	assert.Equal(t, "", c.Field("missing"))
}

func TestCase_WithFields(t *testing.T) {
	t.Parallel()

	c := Case{Fields: map[string]any{"query": "q", "response": "old"}}
	merged := c.WithFields(map[string]any{"response": "new", "context": "ctx"})

	assert.Equal(t, "new", merged.Field("response"))
	assert.Equal(t, "ctx", merged.Field("context"))
	assert.Equal(t, "q", merged.Field("query"))

	// The original case is untouched.
	assert.Equal(t, "old", c.Field("response"))
}
