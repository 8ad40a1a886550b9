package judge

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Anthropic is a judge backed by an Anthropic messages model.
//
// Anthropic has no native JSON response mode, so JSONResponse relies on
// the prompt demanding a JSON reply.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates a judge for an Anthropic model. An empty model
// uses DefaultAnthropicModel.
func NewAnthropic(apiKey, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	m := DefaultAnthropicModel
	if model != "" {
		m = anthropic.Model(model)
	}

	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))

	return &Anthropic{client: client, model: m}, nil
}

// Complete sends one grading prompt to the messages endpoint.
func (j *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model: j.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens:   int64(maxTokens),
		Temperature: param.NewOpt(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := j.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("message returned no content")
	}

	return &Response{
		Text:  message.Content[0].Text,
		Model: string(message.Model),
	}, nil
}

// Name identifies the backend.
func (j *Anthropic) Name() string { return "anthropic" }
