package projects

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foundryeval/foundryeval-go/internal/https"
)

// API provides operations for reading project metadata.
type API struct {
	client *https.Client
}

// New creates a new projects API client.
func New(client *https.Client) *API {
	return &API{client: client}
}

// Get retrieves the metadata document of the project the client's
// endpoint is scoped to.
//
// Example:
//
//	project, err := client.Projects().Get(ctx)
func (a *API) Get(ctx context.Context) (*Project, error) {
	resp, err := a.client.GET(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Project
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}
