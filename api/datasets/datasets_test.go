package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundryeval/foundryeval-go/internal/tests"
	"github.com/foundryeval/foundryeval-go/internal/vcr"
)

func TestDatasets_Create(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/datasets", r.URL.Path)

		var params CreateParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "rag-golden-set", params.Name)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "ds-123", "name": "rag-golden-set"}`))
	})

	api := New(tests.NewServerClient(t, handler))

	dataset, err := api.Create(context.Background(), CreateParams{Name: "rag-golden-set"})
	require.NoError(t, err)
	assert.Equal(t, "ds-123", dataset.ID)
	assert.Equal(t, "rag-golden-set", dataset.Name)
}

func TestDatasets_Create_RequiresName(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	api := New(tests.NewServerClient(t, handler))

	_, err := api.Create(context.Background(), CreateParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestDatasets_Get(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/datasets/ds-123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "ds-123", "name": "rag-golden-set", "rowCount": 42}`))
	})

	api := New(tests.NewServerClient(t, handler))

	dataset, err := api.Get(context.Background(), "ds-123")
	require.NoError(t, err)
	assert.Equal(t, 42, dataset.RowCount)
}

func TestDatasets_AddRows(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/datasets/ds-123/rows", r.URL.Path)

		var params AddRowsParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		require.Len(t, params.Rows, 1)
		assert.Equal(t, "what is RAG?", params.Rows[0]["query"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"inserted": 1}`))
	})

	api := New(tests.NewServerClient(t, handler))

	resp, err := api.AddRows(context.Background(), "ds-123", []map[string]interface{}{
		{"query": "what is RAG?", "ground_truth": "retrieval augmented generation"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
}

func TestDatasets_AddRows_RequiresRows(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	api := New(tests.NewServerClient(t, handler))

	_, err := api.AddRows(context.Background(), "ds-123", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one row is required")
}

func TestDatasets_FetchRows(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/datasets/ds-123/rows", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = w.Write([]byte(`{
				"rows": [{"query": "q1"}, {"query": "q2"}],
				"cursor": "page-2"
			}`))
		case "page-2":
			_, _ = w.Write([]byte(`{"rows": [{"query": "q3"}]}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	api := New(tests.NewServerClient(t, handler))
	ctx := context.Background()

	page, err := api.FetchRows(ctx, "ds-123", FetchRowsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	require.Equal(t, "page-2", page.Cursor)

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(page.Rows[0], &row))
	assert.Equal(t, "q1", row["query"])

	next, err := api.FetchRows(ctx, "ds-123", FetchRowsParams{Limit: 2, Cursor: page.Cursor})
	require.NoError(t, err)
	require.Len(t, next.Rows, 1)
	assert.Empty(t, next.Cursor)
}

func TestDatasets_FetchRows_RequiresID(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	api := New(tests.NewServerClient(t, handler))

	_, err := api.FetchRows(context.Background(), "", FetchRowsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset ID is required")
}

func TestDatasets_Delete(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/datasets/ds-123", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	api := New(tests.NewServerClient(t, handler))

	require.NoError(t, api.Delete(context.Background(), "ds-123"))
}

// TestDatasets_FullLifecycle exercises the dataset lifecycle against a
// real project, or a recorded cassette when VCR_MODE=replay.
func TestDatasets_FullLifecycle(t *testing.T) {
	t.Parallel()

	client := vcr.GetHTTPSClient(t)
	api := New(client)
	ctx := context.Background()

	dataset, err := api.Create(ctx, CreateParams{
		Name:        tests.RandomName(t),
		Description: "Full lifecycle test dataset",
	})
	require.NoError(t, err)
	require.NotEmpty(t, dataset.ID)

	defer func() {
		assert.NoError(t, api.Delete(ctx, dataset.ID))
	}()

	rows := make([]map[string]interface{}, 3)
	for i := range rows {
		rows[i] = map[string]interface{}{
			"query":        fmt.Sprintf("question %d", i),
			"ground_truth": fmt.Sprintf("answer %d", i),
		}
	}

	added, err := api.AddRows(ctx, dataset.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, added.Inserted)

	page, err := api.FetchRows(ctx, dataset.ID, FetchRowsParams{Limit: 100})
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(page.Rows[0], &first))
	assert.Equal(t, "question 0", first["query"])

	fetched, err := api.Get(ctx, dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, dataset.ID, fetched.ID)
}
