package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/foundryeval/foundryeval-go/internal/https"
)

// API provides operations for managing evaluation runs.
type API struct {
	client *https.Client
}

// New creates a new runs API client.
func New(client *https.Client) *API {
	return &API{client: client}
}

// Create creates a new evaluation run in the project.
//
// Example:
//
//	run, err := client.Runs().Create(ctx, runs.CreateParams{
//	    DisplayName: "nightly-eval",
//	    Evaluators:  []string{"linguistic_similarity"},
//	})
func (a *API) Create(ctx context.Context, params CreateParams) (*Run, error) {
	if params.DisplayName == "" {
		return nil, fmt.Errorf("run display name is required")
	}

	resp, err := a.client.POST(ctx, "/evaluations/runs", params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// Get retrieves a run by ID.
//
// Example:
//
//	run, err := client.Runs().Get(ctx, "run_123")
func (a *API) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	path := fmt.Sprintf("/evaluations/runs/%s", id)
	resp, err := a.client.GET(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// List retrieves runs in the project, newest first.
//
// Example:
//
//	page, err := client.Runs().List(ctx, runs.ListParams{Limit: 10})
func (a *API) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	queryParams := url.Values{}

	if params.Limit > 0 {
		queryParams.Set("top", strconv.Itoa(params.Limit))
	}
	if params.Skip > 0 {
		queryParams.Set("skip", strconv.Itoa(params.Skip))
	}

	resp, err := a.client.GET(ctx, "/evaluations/runs", queryParams)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// AddRows appends evaluated rows to a run. Rows may be uploaded in
// multiple batches while the run is open.
//
// Example:
//
//	_, err := client.Runs().AddRows(ctx, run.ID, []runs.Row{
//	    {Inputs: map[string]interface{}{"query": "what is RAG?"}},
//	})
func (a *API) AddRows(ctx context.Context, id string, rows []Row) (*AddRowsResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID is required")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("at least one row is required")
	}

	path := fmt.Sprintf("/evaluations/runs/%s/rows", id)
	resp, err := a.client.POST(ctx, path, AddRowsParams{Rows: rows})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result AddRowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// Complete marks a run as finished and records its aggregate metrics.
// The service rejects further AddRows calls after completion.
func (a *API) Complete(ctx context.Context, id string, params CompleteParams) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID is required")
	}
	if params.Status == "" {
		params.Status = "completed"
	}

	path := fmt.Sprintf("/evaluations/runs/%s/complete", id)
	resp, err := a.client.POST(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// Delete deletes a run by ID.
//
// Example:
//
//	err := client.Runs().Delete(ctx, "run_123")
func (a *API) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("run ID is required")
	}

	path := fmt.Sprintf("/evaluations/runs/%s", id)
	resp, err := a.client.DELETE(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}
