package judge

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini is a judge backed by a Gemini model on the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a judge for a Gemini model. An empty model uses
// DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Complete sends one grading prompt to the model.
func (j *Gemini) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     &temperature,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, "system")
	}
	if req.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	resp, err := j.client.Models.GenerateContent(ctx, j.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("error generating content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("generation returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("generation returned empty content")
	}

	return &Response{Text: candidate.Content.Parts[0].Text, Model: j.model}, nil
}

// Name identifies the backend.
func (j *Gemini) Name() string { return "gemini" }
