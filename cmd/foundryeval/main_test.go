package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_AI_PROJECT_ENDPOINT", "https://test-resource.services.ai.azure.com/api/projects/test-project")
	t.Setenv("AZURE_AI_PROJECT_API_KEY", "")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://test-resource.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "test-key")
	t.Setenv("AZURE_OPENAI_CHAT_DEPLOYMENT", "gpt-4o")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-10-21")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluatorsCmd(t *testing.T) {
	out, err := execute(t, "evaluators")
	require.NoError(t, err)
	assert.Contains(t, out, "linguistic_similarity")
	assert.Contains(t, out, "content_safety")
	assert.Contains(t, out, "qa")
}

func TestValidateCmd(t *testing.T) {
	setEnv(t)

	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"query": "q1", "response": "r1", "ground_truth": "g1"}
{"query": "q2", "response": "r2", "ground_truth": "g2"}
`), 0o644))

	out, err := execute(t, "validate", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration OK")
	assert.Contains(t, out, "2 cases")
}

func TestValidateCmd_MissingConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	_, err := execute(t, "validate", "--data", "unused.jsonl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_API_KEY")
}

func TestValidateCmd_BadDataset(t *testing.T) {
	setEnv(t)

	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"query": "q1", "response": "r1", "ground_truth": "g1"}
{"query": "q2"}
`), 0o644))

	_, err := execute(t, "validate", "--data", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
