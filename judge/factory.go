package judge

import (
	"context"
	"fmt"

	"github.com/foundryeval/foundryeval-go/config"
)

// FromConfig builds the judge backend selected by cfg.JudgeProvider.
//
// The chat deployment name doubles as the model name for
// OpenAI-compatible endpoints.
func FromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.JudgeProvider {
	case "", config.ProviderAzureOpenAI:
		return NewAzureOpenAI(cfg.OpenAIEndpoint, cfg.OpenAIAPIKey, cfg.Deployment, cfg.APIVersion)
	case config.ProviderOpenAICompat:
		return NewOpenAI(cfg.OpenAICompatKey, cfg.OpenAIBaseURL, cfg.Deployment)
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown judge provider %q", cfg.JudgeProvider)
	}
}
