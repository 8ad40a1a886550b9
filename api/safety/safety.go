package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/foundryeval/foundryeval-go/internal/https"
)

// DefaultPollInterval is the default delay between polls of an
// annotation operation.
const DefaultPollInterval = 2 * time.Second

// API provides operations for the content safety annotation service.
type API struct {
	client *https.Client
}

// New creates a new safety API client.
func New(client *https.Client) *API {
	return &API{client: client}
}

// Submit starts an annotation operation for the given texts. The
// returned operation carries the polling URL from the service's
// Operation-Location header.
//
// Example:
//
//	op, err := client.Safety().Submit(ctx, safety.SubmitParams{
//	    Categories: []string{safety.CategoryViolence},
//	    Texts:      []string{"user: hello", "assistant: hi there"},
//	})
func (a *API) Submit(ctx context.Context, params SubmitParams) (*Operation, error) {
	if len(params.Texts) == 0 {
		return nil, fmt.Errorf("at least one text is required")
	}
	if len(params.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	if params.Task == "" {
		params.Task = DefaultTask
	}

	resp, err := a.client.POST(ctx, "/evaluations/annotations", params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	location := resp.Header.Get("Operation-Location")
	if location == "" {
		return nil, fmt.Errorf("missing Operation-Location header in response")
	}

	var op Operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if op.Status == "" {
		op.Status = StatusNotStarted
	}
	op.Location = location

	return &op, nil
}

// Poll fetches the current state of an annotation operation and
// updates op.Status.
func (a *API) Poll(ctx context.Context, op *Operation) (*Result, error) {
	if op == nil || op.Location == "" {
		return nil, fmt.Errorf("operation location is required")
	}

	resp, err := a.client.GETURL(ctx, op.Location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	op.Status = result.Status

	return &result, nil
}

// Wait polls an operation until it succeeds, fails, or the context is
// cancelled. A non-positive interval uses DefaultPollInterval.
func (a *API) Wait(ctx context.Context, op *Operation, interval time.Duration) (*Result, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		result, err := a.Poll(ctx, op)
		if err != nil {
			return nil, err
		}

		switch result.Status {
		case StatusSucceeded:
			return result, nil
		case StatusFailed:
			return nil, fmt.Errorf("annotation failed: %s", result.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Annotate submits the given texts and waits for the verdict.
//
// Example:
//
//	result, err := client.Safety().Annotate(ctx, safety.SubmitParams{
//	    Categories: []string{safety.CategoryHateUnfairness},
//	    Texts:      []string{"user: hello", "assistant: hi there"},
//	})
func (a *API) Annotate(ctx context.Context, params SubmitParams) (*Result, error) {
	op, err := a.Submit(ctx, params)
	if err != nil {
		return nil, err
	}
	return a.Wait(ctx, op, DefaultPollInterval)
}
