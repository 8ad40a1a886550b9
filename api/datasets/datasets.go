// Package datasets provides operations for managing hosted evaluation
// datasets in an Azure AI Foundry project.
package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/foundryeval/foundryeval-go/internal/https"
)

// API provides operations for managing datasets.
type API struct {
	client *https.Client
}

// New creates a new datasets API client.
func New(client *https.Client) *API {
	return &API{client: client}
}

// Create creates a new dataset in the project.
//
// Example:
//
//	dataset, err := client.Datasets().Create(ctx, datasets.CreateParams{
//	    Name: "rag-golden-set",
//	})
func (a *API) Create(ctx context.Context, params CreateParams) (*Dataset, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}

	resp, err := a.client.POST(ctx, "/datasets", params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Dataset
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// Get retrieves a dataset by ID.
//
// Example:
//
//	dataset, err := client.Datasets().Get(ctx, "ds_123")
func (a *API) Get(ctx context.Context, id string) (*Dataset, error) {
	if id == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}

	path := fmt.Sprintf("/datasets/%s", id)
	resp, err := a.client.GET(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Dataset
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// AddRows appends rows to a dataset.
//
// Example:
//
//	_, err := client.Datasets().AddRows(ctx, dataset.ID, []map[string]interface{}{
//	    {"query": "what is RAG?", "ground_truth": "retrieval augmented generation"},
//	})
func (a *API) AddRows(ctx context.Context, id string, rows []map[string]interface{}) (*AddRowsResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("at least one row is required")
	}

	path := fmt.Sprintf("/datasets/%s/rows", id)
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

// FetchRows retrieves one page of dataset rows. Pass the returned
// cursor to fetch the next page; an empty cursor means the dataset is
// exhausted.
//
// Example:
//
//	page, err := client.Datasets().FetchRows(ctx, "ds_123", datasets.FetchRowsParams{
//	    Limit: 100,
//	})
func (a *API) FetchRows(ctx context.Context, id string, params FetchRowsParams) (*FetchRowsResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}

	queryParams := url.Values{}
	if params.Limit > 0 {
		queryParams.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		queryParams.Set("cursor", params.Cursor)
	}

	path := fmt.Sprintf("/datasets/%s/rows", id)
	resp, err := a.client.GET(ctx, path, queryParams)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result FetchRowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// Delete deletes a dataset by ID.
//
// Example:
//
//	err := client.Datasets().Delete(ctx, "ds_123")
func (a *API) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("dataset ID is required")
	}

	path := fmt.Sprintf("/datasets/%s", id)
	resp, err := a.client.DELETE(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}
