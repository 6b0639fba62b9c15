// Package llm wraps the text-generation backends used by the tutor chat
// behind a single Provider interface.
package llm

import "context"

// Provider generates a completion for a prompt.
type Provider interface {
	// Complete sends the request and returns the generated text. A response
	// with empty text is not an error at this layer.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the persona prompt.
	System string

	// Messages is the conversation so far; the tutor sends a single user turn.
	Messages []Message

	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserRequest builds the common single-turn request.
func UserRequest(system, text string, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: text}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// Response holds the model output.
type Response struct {
	Text  string
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
