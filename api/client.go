// Package api provides a client for the Azure AI Foundry evaluation API.
package api

import (
	"net/http"

	"github.com/foundryeval/foundryeval-go/api/datasets"
	"github.com/foundryeval/foundryeval-go/api/projects"
	"github.com/foundryeval/foundryeval-go/api/runs"
	"github.com/foundryeval/foundryeval-go/api/safety"
	"github.com/foundryeval/foundryeval-go/internal/https"
	"github.com/foundryeval/foundryeval-go/logger"
)

// DefaultAPIVersion is the service API version requested when none is
// configured.
const DefaultAPIVersion = "2025-05-01"

// API is the main client for a project's evaluation API.
type API struct {
	client *https.Client
}

// Option configures an API client.
type Option func(*options)

// options holds configuration for creating an API client.
type options struct {
	apiVersion string
	httpClient *http.Client
	logger     logger.Logger
}

// WithAPIVersion sets the service API version for the client.
// If not provided, defaults to DefaultAPIVersion.
func WithAPIVersion(version string) Option {
	return func(o *options) {
		o.apiVersion = version
	}
}

// WithHTTPClient sets a custom HTTP client, for example one wrapped
// with recording or tracing transports.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for the client.
// If not provided, no logging will occur.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// NewClient creates a new API client for the given project endpoint and
// API key. Both must be non-empty (validated at config level).
func NewClient(endpoint, apiKey string, opts ...Option) *API {
	options := &options{
		apiVersion: DefaultAPIVersion,
		logger:     logger.Discard(),
	}

	for _, opt := range opts {
		opt(options)
	}

	var client *https.Client
	if options.httpClient != nil {
		client = https.NewWrappedClient(apiKey, endpoint, options.apiVersion, options.httpClient, options.logger)
	} else {
		client = https.NewClient(apiKey, endpoint, options.apiVersion, options.logger)
	}

	return &API{
		client: client,
	}
}

// Projects returns a client for project metadata operations
func (a *API) Projects() *projects.API {
	return projects.New(a.client)
}

// Runs is used to access the evaluation runs API
func (a *API) Runs() *runs.API {
	return runs.New(a.client)
}

// Datasets returns a client for dataset operations
func (a *API) Datasets() *datasets.API {
	return datasets.New(a.client)
}

// Safety is used to access the content safety annotation API
func (a *API) Safety() *safety.API {
	return safety.New(a.client)
}
