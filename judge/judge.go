// Package judge provides chat model backends for grading evaluation cases.
//
// A judge receives a grading prompt describing a single case and replies
// with its assessment, usually as a small JSON document. The Client
// interface hides which provider serves the model so evaluators can be
// written once and run against Azure OpenAI, OpenAI-compatible endpoints,
// Anthropic or Gemini.
package judge

import "context"

// DefaultMaxTokens caps judge replies when the request does not set a
// limit. Grading replies are short, so a small cap keeps latency down.
const DefaultMaxTokens = 1024

// Request is a single grading prompt for a judge model.
type Request struct {
	// System establishes the grading persona and output contract.
	// Optional; backends without native system prompts prepend it to
	// the user prompt.
	System string

	// Prompt is the user message containing the case to grade.
	Prompt string

	// MaxTokens caps the reply length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature sets sampling temperature. Graders run at zero for
	// repeatable scores, which is also the zero value.
	Temperature float64

	// JSONResponse asks the backend to constrain the reply to a JSON
	// object where the provider supports it.
	JSONResponse bool
}

// Response is a judge model's reply to a grading prompt.
type Response struct {
	// Text is the raw reply text.
	Text string

	// Model is the provider-reported model or deployment that answered.
	Model string
}

// Client is a chat model that answers grading prompts.
//
// Implementations must be safe for concurrent use; a single client is
// shared across evaluators and cases.
type Client interface {
	// Complete sends one grading prompt and returns the model's reply.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend, such as "azure_openai".
	Name() string
}
