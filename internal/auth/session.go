package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/foundryeval/foundryeval-go/internal/https"
	"github.com/foundryeval/foundryeval-go/logger"
)

const defaultAPIVersion = "2025-05-01"

// Session resolves and caches the identity of the Azure AI Foundry
// project behind an endpoint.
type Session struct {
	mu     sync.RWMutex
	result *loginResult // Resolved project metadata
	err    error
	done   chan struct{}
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options // Store original options for access before login completes
}

// Options configures a session.
type Options struct {
	// Endpoint is the project endpoint URL (required).
	Endpoint string

	// APIKey authenticates requests against the project (required).
	APIKey string

	// APIVersion overrides the default service API version.
	APIVersion string

	// ProjectName optionally asserts which project the endpoint serves.
	// Login fails if the endpoint reports a different project.
	ProjectName string

	// Client overrides the HTTPS client. Mainly for tests.
	Client *https.Client

	// Logger receives debug output. Defaults to a noop logger.
	Logger logger.Logger
}

// Info is a snapshot of a session's resolved project identity.
type Info struct {
	ProjectID   string
	ProjectName string
	Endpoint    string
	APIKey      string
	LoggedIn    bool
}

// NewSession creates a session and starts login with retry in the background.
// Returns an error if required fields (APIKey, Endpoint) are missing.
// The context is used for the background login goroutine.
// If opts.Logger is nil, a noop logger is used.
// If opts.Client is nil, a default client will be created.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("project endpoint is required")
	}

	// Use discard logger if none provided
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	// Create default client if none provided
	if opts.Client == nil {
		version := opts.APIVersion
		if version == "" {
			version = defaultAPIVersion
		}
		opts.Client = https.NewClient(opts.APIKey, opts.Endpoint, version, log)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		logger: log,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
	}
	go s.loginWithRetry(opts)
	return s, nil
}

// Close cancels the background login goroutine.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Project returns the resolved project ID and name.
// Returns empty strings if login hasn't completed yet.
func (s *Session) Project() (id, name string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result != nil {
		return s.result.ProjectID, s.result.ProjectName
	}
	return "", ""
}

// Endpoint returns the project endpoint from config.
// Always available, even before login completes.
func (s *Session) Endpoint() string {
	return s.opts.Endpoint
}

// APIKey returns the API key from config.
// Always available, even before login completes.
func (s *Session) APIKey() string {
	return s.opts.APIKey
}

// Info returns a snapshot of the session state without blocking.
// Endpoint and APIKey come from config; the project fields are filled
// in once login completes.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := Info{
		Endpoint: s.opts.Endpoint,
		APIKey:   s.opts.APIKey,
	}
	if s.result != nil {
		info.ProjectID = s.result.ProjectID
		info.ProjectName = s.result.ProjectName
		info.LoggedIn = true
	}
	return info
}

// Login blocks until login completes or context is cancelled.
// Returns error if login failed.
func (s *Session) Login(ctx context.Context) error {
	select {
	case <-s.done:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) loginWithRetry(opts Options) {
	defer close(s.done)

	s.logger.Debug("starting login with retry")

	// Use loginUntilSuccess which retries on network/5xx errors
	result, err := loginUntilSuccess(s.ctx, opts.Client, opts.APIKey, opts.ProjectName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		s.logger.Warn("login failed", "error", err)
		return
	}

	s.result = result
	s.logger.Debug("login successful",
		"project_name", s.result.ProjectName,
		"project_id", s.result.ProjectID)
}

// NewTestSession creates a static session with the given resolved info.
// This is for use in test packages outside of internal/auth to avoid import cycles.
// This session does not make any network calls or start goroutines.
func NewTestSession(info *Info, done chan struct{}, log logger.Logger) *Session {
	return &Session{
		result: &loginResult{
			ProjectID:   info.ProjectID,
			ProjectName: info.ProjectName,
		},
		err:    nil,
		done:   done,
		logger: log,
		opts: Options{
			APIKey:   info.APIKey,
			Endpoint: info.Endpoint,
		},
	}
}
