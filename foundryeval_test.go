package foundryeval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundryeval/foundryeval-go/config"
	"github.com/foundryeval/foundryeval-go/eval"
	"github.com/foundryeval/foundryeval-go/internal/auth"
	"github.com/foundryeval/foundryeval-go/judge"
	"github.com/foundryeval/foundryeval-go/logger"
)

// setTestEnv fills the required environment for a client that never
// touches the network: the judge is stubbed and the project API key is
// the offline test sentinel.
func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_AI_PROJECT_ENDPOINT", "https://test-resource.services.ai.azure.com/api/projects/test-project")
	t.Setenv("AZURE_AI_PROJECT_API_KEY", auth.TestAPIKey)
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://test-resource.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "test-key")
	t.Setenv("AZURE_OPENAI_CHAT_DEPLOYMENT", "gpt-4o")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-10-21")
}

// stubJudge always replies with a perfect verdict.
type stubJudge struct{}

func (stubJudge) Complete(context.Context, judge.Request) (*judge.Response, error) {
	return &judge.Response{Text: `{"score": 5, "explanation": "ok"}`, Model: "stub"}, nil
}

func (stubJudge) Name() string { return "stub" }

func TestNew_RegistersBuiltins(t *testing.T) {
	setTestEnv(t)

	client, err := New(context.Background(), WithJudge(stubJudge{}), WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer client.Close()

	names := client.Registry().Names()
	assert.Contains(t, names, "linguistic_similarity")
	assert.Contains(t, names, "retrieval")
	assert.Contains(t, names, "qa")
	assert.Contains(t, names, "content_safety")
	assert.Contains(t, names, "hate_unfairness")
	assert.NotNil(t, client.API())
	assert.Equal(t, "stub", client.Judge().Name())
}

func TestNew_MissingConfig(t *testing.T) {
	setTestEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	_, err := New(context.Background())
	require.Error(t, err)

	var confErr *config.ConfigurationError
	require.True(t, errors.As(err, &confErr))
	assert.Contains(t, confErr.Missing, "AZURE_OPENAI_API_KEY")
}

func TestNew_WithoutProjectKey(t *testing.T) {
	setTestEnv(t)
	t.Setenv("AZURE_AI_PROJECT_API_KEY", "")

	client, err := New(context.Background(), WithJudge(stubJudge{}), WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer client.Close()

	assert.Nil(t, client.API())
	assert.NotContains(t, client.Registry().Names(), "content_safety")

	_, err = client.Upload(context.Background(), &eval.Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_AI_PROJECT_API_KEY")
}

func TestClient_Run(t *testing.T) {
	setTestEnv(t)

	client, err := New(context.Background(), WithJudge(stubJudge{}), WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer client.Close()

	evs, err := client.Evaluators("linguistic_similarity")
	require.NoError(t, err)

	dataset := eval.NewDataset([]eval.Case{
		{Fields: map[string]any{"query": "q1", "response": "r1", "ground_truth": "g1"}},
		{Fields: map[string]any{"query": "q2", "response": "r2", "ground_truth": "g2"}},
		{Fields: map[string]any{"query": "q3", "response": "r3", "ground_truth": "g3"}},
	})

	summary, err := client.Run(context.Background(), eval.Opts{
		Dataset:    dataset,
		Evaluators: evs,
		Quiet:      true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Rows, 3)
	require.NotNil(t, summary.Metrics["linguistic_similarity"])
	assert.Equal(t, 5.0, *summary.Metrics["linguistic_similarity"])
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, client.Config().Threshold, summary.Threshold)
}

func TestClient_Evaluators_Unknown(t *testing.T) {
	setTestEnv(t)

	client, err := New(context.Background(), WithJudge(stubJudge{}), WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Evaluators("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown evaluator "nope"`)
}
