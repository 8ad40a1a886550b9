// Package tests provides test utilities for creating test sessions and other test helpers.
package tests

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/foundryeval/foundryeval-go/internal/auth"
	"github.com/foundryeval/foundryeval-go/internal/https"
	intlogger "github.com/foundryeval/foundryeval-go/internal/logger"
)

const testAPIVersion = "2025-05-01"

// NewSession creates a static test session with hardcoded project data.
// This session does not make any network calls or start goroutines.
// Uses the fail logger if t is provided.
func NewSession(t *testing.T) *auth.Session {
	t.Helper()
	log := intlogger.NewFailTestLogger(t)

	done := make(chan struct{})
	close(done) // Already resolved, no login needed

	info := &auth.Info{
		ProjectID:   "proj-test-12345",
		ProjectName: "test-project",
		Endpoint:    "https://test-resource.services.ai.azure.com/api/projects/test-project",
		APIKey:      auth.TestAPIKey,
		LoggedIn:    true,
	}

	return auth.NewTestSession(info, done, log)
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	charset := "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]rune, length)
	for i := range b {
		b[i] = rune(charset[rand.Intn(len(charset))])
	}
	return string(b)
}

// Name generates a test-specific name by combining t.Name() with optional suffixes.
//
// Example usage:
//
//	tests.Name(t)                    // "TestFoo"
//	tests.Name(t, "slug")            // "TestFoo-slug"
//	tests.Name(t, "run", "v2")       // "TestFoo-run-v2"
func Name(t *testing.T, suffixes ...string) string {
	t.Helper()

	name := t.Name()

	if len(suffixes) == 0 {
		return name
	}

	for _, suffix := range suffixes {
		if suffix != "" {
			name = name + "-" + suffix
		}
	}

	return name
}

// RandomName generates a unique name for tests using the test name and a random suffix.
// This ensures test resources don't collide when running tests in parallel.
func RandomName(t *testing.T, suffixes ...string) string {
	t.Helper()
	parts := []string{
		"foundryeval-test",
		t.Name(),
		RandomString(8),
	}
	parts = append(parts, suffixes...)
	return strings.Join(parts, "-")
}

// GetTestHTTPSClient creates an HTTPS client for integration tests.
// It reads AZURE_AI_PROJECT_ENDPOINT and AZURE_AI_PROJECT_API_KEY from
// environment variables. Uses the fail logger to report errors immediately.
// Skips the test in short mode (-short flag) or when the project
// environment variables are not set.
func GetTestHTTPSClient(t *testing.T) *https.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint := os.Getenv("AZURE_AI_PROJECT_ENDPOINT")
	if endpoint == "" {
		t.Skip("AZURE_AI_PROJECT_ENDPOINT not set")
	}

	apiKey := os.Getenv("AZURE_AI_PROJECT_API_KEY")
	if apiKey == "" {
		t.Skip("AZURE_AI_PROJECT_API_KEY not set")
	}

	log := intlogger.NewFailTestLogger(t)
	client := https.NewClient(apiKey, endpoint, testAPIVersion, log)

	return client
}

// NewServerClient starts an httptest server with the given handler and
// returns an HTTPS client pointed at it. The server is closed when the
// test finishes.
func NewServerClient(t *testing.T, handler http.Handler) *https.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := intlogger.NewFailTestLogger(t)
	return https.NewWrappedClient("test-api-key", server.URL, testAPIVersion, server.Client(), log)
}
