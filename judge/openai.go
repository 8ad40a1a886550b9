package judge

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAI is a judge backed by any OpenAI-compatible chat completions
// endpoint, including the public OpenAI API, local servers and gateway
// proxies.
type OpenAI struct {
	client *goopenai.Client
	model  string
}

// NewOpenAI creates a judge for an OpenAI-compatible API. An empty
// baseURL targets the public OpenAI endpoint.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{client: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

// Complete sends one grading prompt to the chat completions endpoint.
func (j *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       j.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := j.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("error creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Response{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

// Name identifies the backend.
func (j *OpenAI) Name() string { return "openai" }
