package projects

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundryeval/foundryeval-go/internal/https"
	"github.com/foundryeval/foundryeval-go/internal/tests"
)

func TestProjects_Get(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("api-key"))
		assert.NotEmpty(t, r.URL.Query().Get("api-version"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "proj-123",
			"name": "chat-eval",
			"location": "eastus2",
			"endpoint": "https://my-resource.services.ai.azure.com/api/projects/chat-eval"
		}`))
	})

	api := New(tests.NewServerClient(t, handler))

	project, err := api.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "proj-123", project.ID)
	assert.Equal(t, "chat-eval", project.Name)
	assert.Equal(t, "eastus2", project.Location)
}

func TestProjects_Get_Unauthorized(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid api key"}`))
	})

	api := New(tests.NewServerClient(t, handler))

	_, err := api.Get(context.Background())
	require.Error(t, err)

	var httpErr *https.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

// TestProjects_Get_Integration fetches metadata from a real project.
// Requires AZURE_AI_PROJECT_ENDPOINT and AZURE_AI_PROJECT_API_KEY.
func TestProjects_Get_Integration(t *testing.T) {
	t.Parallel()

	client := tests.GetTestHTTPSClient(t)
	api := New(client)

	project, err := api.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.NotEmpty(t, project.Name)
}
