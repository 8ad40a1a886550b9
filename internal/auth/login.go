// Package auth resolves project identity from an Azure AI Foundry
// endpoint and keeps it available for the rest of the SDK.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/foundryeval/foundryeval-go/internal/https"
)

// TestAPIKey is a sentinel API key for offline tests. Sessions created
// with it resolve to a static test project without any network calls.
const TestAPIKey = "___TEST_API_KEY___"

// loginResult holds the project identity resolved from the endpoint.
type loginResult struct {
	ProjectID   string
	ProjectName string
}

// projectDocument is the metadata document the service returns at the
// project endpoint root.
type projectDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func testLoginResult() *loginResult {
	return &loginResult{
		ProjectID:   "proj-test-12345",
		ProjectName: "test-project",
	}
}

// login fetches the project metadata document and verifies the project
// name if one was requested.
func login(ctx context.Context, client *https.Client, projectName string) (*loginResult, error) {
	resp, err := client.GET(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var doc projectDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding project metadata: %w", err)
	}

	if projectName != "" && doc.Name != projectName {
		return nil, fmt.Errorf("project %q not found at endpoint (endpoint serves %q)", projectName, doc.Name)
	}

	return &loginResult{ProjectID: doc.ID, ProjectName: doc.Name}, nil
}

// loginUntilSuccess retries login until it succeeds, a terminal error
// occurs, or the context is cancelled. Transport failures and server
// errors are retried with exponential backoff; everything the service
// actually answered (auth rejections, decode failures, project name
// mismatches) is terminal.
func loginUntilSuccess(ctx context.Context, client *https.Client, apiKey, projectName string) (*loginResult, error) {
	if apiKey == TestAPIKey {
		return testLoginResult(), nil
	}

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		result, err := login(ctx, client, projectName)
		if err == nil {
			return result, nil
		}

		var httpErr *https.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return nil, fmt.Errorf("invalid API key: %w", err)
			}
		}
		if !retryable(err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// retryable reports whether a failed login attempt is worth retrying.
func retryable(err error) bool {
	var httpErr *https.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}

	// Transport-level failures never reached the service.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
