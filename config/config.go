// Package config provides configuration management for the evaluation harness.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Judge provider names accepted by JUDGE_PROVIDER.
const (
	ProviderAzureOpenAI  = "azure_openai"
	ProviderOpenAICompat = "openai"
	ProviderAnthropic    = "anthropic"
	ProviderGemini       = "gemini"
)

// Config holds immutable configuration for an evaluation run.
type Config struct {
	// Azure AI Foundry project (result upload + service-backed evaluators).
	ProjectEndpoint string
	ProjectAPIKey   string

	// Azure OpenAI judge model.
	OpenAIEndpoint string
	OpenAIAPIKey   string
	Deployment     string
	APIVersion     string

	// Run parameters.
	DataPath   string
	OutputPath string
	Threshold  int
	LogLevel   string
	Debug      bool

	// Judge backend selection; azure_openai unless overridden.
	JudgeProvider string

	// Alternate judge backends (optional).
	OpenAIBaseURL   string
	OpenAICompatKey string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
}

// ConfigurationError reports missing or malformed required settings.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required environment variables: %v", e.Missing)
	}
	return e.Reason
}

// FromEnv loads configuration from environment variables with defaults.
//
// Supported environment variables:
//   - AZURE_AI_PROJECT_ENDPOINT: Foundry project endpoint (required)
//   - AZURE_AI_PROJECT_API_KEY: Foundry project API key (enables safety evaluators and upload)
//   - AZURE_OPENAI_ENDPOINT: Azure OpenAI resource endpoint (required)
//   - AZURE_OPENAI_API_KEY: Azure OpenAI API key (required)
//   - AZURE_OPENAI_CHAT_DEPLOYMENT: chat model deployment name (required)
//   - AZURE_OPENAI_API_VERSION: Azure OpenAI API version (required)
//   - EVAL_DATA_PATH: dataset path (default: "../data/eval_data.jsonl")
//   - OUTPUT_PATH: results artifact path (default: "../results/evaluation_results.json")
//   - EVALUATION_THRESHOLD: pass/fail score threshold (default: 3)
//   - LOG_LEVEL: log level (default: "INFO")
//   - DEBUG_MODE: verbose diagnostics (default: false)
//   - JUDGE_PROVIDER: azure_openai, openai, anthropic or gemini (default: azure_openai)
//
// FromEnv fails only on malformed values; use IsValid to check for missing
// required settings.
func FromEnv() (*Config, error) {
	threshold, err := getEnvInt("EVALUATION_THRESHOLD", 3)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	return &Config{
		ProjectEndpoint: getEnvString("AZURE_AI_PROJECT_ENDPOINT", ""),
		ProjectAPIKey:   getEnvString("AZURE_AI_PROJECT_API_KEY", ""),
		OpenAIEndpoint:  getEnvString("AZURE_OPENAI_ENDPOINT", ""),
		OpenAIAPIKey:    getEnvString("AZURE_OPENAI_API_KEY", ""),
		Deployment:      getEnvString("AZURE_OPENAI_CHAT_DEPLOYMENT", ""),
		APIVersion:      getEnvString("AZURE_OPENAI_API_VERSION", ""),
		DataPath:        getEnvString("EVAL_DATA_PATH", "../data/eval_data.jsonl"),
		OutputPath:      getEnvString("OUTPUT_PATH", "../results/evaluation_results.json"),
		Threshold:       threshold,
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
		Debug:           getEnvBool("DEBUG_MODE", false),
		JudgeProvider:   getEnvString("JUDGE_PROVIDER", ProviderAzureOpenAI),
		OpenAIBaseURL:   getEnvString("OPENAI_BASE_URL", ""),
		OpenAICompatKey: getEnvString("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnvString("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnvString("ANTHROPIC_MODEL", ""),
		GeminiAPIKey:    getEnvString("GEMINI_API_KEY", ""),
		GeminiModel:     getEnvString("GEMINI_MODEL", ""),
	}, nil
}

// LoadDotEnv loads a .env file into the process environment before FromEnv
// reads it. A missing file is not an error; a present-but-unreadable file is.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// getEnvString returns the trimmed environment variable value or the default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or the default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(strings.TrimSpace(value)) == "true"
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or the default.
// A non-numeric value is an error rather than a silent fallback.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

// IsValid checks if the configuration has all required fields.
// Returns a *ConfigurationError naming every missing field.
func (c *Config) IsValid() error {
	var missing []string
	if c.ProjectEndpoint == "" {
		missing = append(missing, "AZURE_AI_PROJECT_ENDPOINT")
	}
	if c.OpenAIEndpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if c.Deployment == "" {
		missing = append(missing, "AZURE_OPENAI_CHAT_DEPLOYMENT")
	}
	if c.APIVersion == "" {
		missing = append(missing, "AZURE_OPENAI_API_VERSION")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// UploadEnabled reports whether result upload and service-backed evaluators
// can reach the Foundry project.
func (c *Config) UploadEnabled() bool {
	return c.ProjectEndpoint != "" && c.ProjectAPIKey != ""
}
