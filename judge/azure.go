package judge

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/shared"
)

// defaultAzureAPIVersion is used when the configuration does not pin an
// Azure OpenAI API version.
const defaultAzureAPIVersion = "2024-10-21"

// AzureOpenAI is a judge backed by an Azure OpenAI chat deployment.
type AzureOpenAI struct {
	client     openai.Client
	deployment string
}

// NewAzureOpenAI creates a judge for the chat deployment at an Azure
// OpenAI resource endpoint.
func NewAzureOpenAI(endpoint, apiKey, deployment, apiVersion string) (*AzureOpenAI, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if deployment == "" {
		return nil, fmt.Errorf("deployment is required")
	}
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)

	return &AzureOpenAI{client: client, deployment: deployment}, nil
}

// Complete sends one grading prompt to the chat deployment.
func (j *AzureOpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(j.deployment),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSONResponse {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := j.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error creating chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Response{
		Text:  completion.Choices[0].Message.Content,
		Model: completion.Model,
	}, nil
}

// Name identifies the backend.
func (j *AzureOpenAI) Name() string { return "azure_openai" }
