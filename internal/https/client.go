// Package https provides a unified HTTP client for making Azure service
// requests with centralized auth, error handling, and debug logging.
package https

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/foundryeval/foundryeval-go/logger"
)

// HTTPError represents an HTTP error response with status code.
type HTTPError struct {
	StatusCode int
	Body       string
	err        error
}

func (e *HTTPError) Error() string {
	return e.err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.err
}

// Client is a unified HTTP client for Azure REST requests. Every request
// carries the api-key header and, when configured, an api-version query
// parameter as Azure endpoints require.
type Client struct {
	apiKey     string
	baseURL    string // e.g. "https://myres.services.ai.azure.com/api/projects/my-proj"
	apiVersion string // appended as ?api-version=... unless the caller set one
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new HTTP client with the given credentials and base URL.
func NewClient(apiKey, baseURL, apiVersion string, log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// NewWrappedClient creates a new HTTP client with a custom http.Client.
// This is useful for tests that need to wrap the HTTP client (e.g., with VCR).
func NewWrappedClient(apiKey, baseURL, apiVersion string, httpClient *http.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     log,
	}
}

// GET makes a GET request with query parameters.
// The path is appended to the base URL (e.g., "/evaluations/runs").
func (c *Client) GET(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL: %w", err)
	}

	// Add query parameters if provided
	if len(params) > 0 {
		u = u + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// GETURL makes a GET request against an absolute URL, e.g. an
// Operation-Location returned by a long-running operation. The URL must be
// on the same service; auth headers are attached as usual.
func (c *Client) GETURL(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// POST makes a POST request with a JSON body.
// The path is appended to the base URL (e.g., "/evaluations/runs").
func (c *Client) POST(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)

		c.logger.Debug("http request body", "body", string(jsonData))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doRequest(req)
}

// DELETE makes a DELETE request.
// The path is appended to the base URL (e.g., "/evaluations/runs/123").
func (c *Client) DELETE(ctx context.Context, path string) (*http.Response, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "DELETE", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// Client returns the underlying http.Client.
// This is useful for extracting the client for auth.Session when using VCR.
func (c *Client) Client() *http.Client {
	return c.httpClient
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest executes the HTTP request with auth, error checking, and logging.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	// Azure data-plane auth header
	req.Header.Set("api-key", c.apiKey)

	// Every versioned Azure endpoint wants api-version; respect an explicit one
	if c.apiVersion != "" {
		q := req.URL.Query()
		if q.Get("api-version") == "" {
			q.Set("api-version", c.apiVersion)
			req.URL.RawQuery = q.Encode()
		}
	}

	// Log request
	start := time.Now()
	c.logger.Debug("http request",
		"method", req.Method,
		"url", req.URL.String())

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("http request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
			"duration", time.Since(start))
		return nil, fmt.Errorf("error making request: %w", err)
	}

	// Log response
	c.logger.Debug("http response",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		c.logger.Debug("http error response",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"body", string(body))

		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			err:        fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	return resp, nil
}
