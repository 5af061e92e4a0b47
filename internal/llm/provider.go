package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// When req.Schema is set the provider uses its native structured output
	// mechanism and Content is validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	System   string
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When nil,
	// the response Content is raw text as json.RawMessage.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness in [0, 1]. Zero means provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, e.g. "column-trace". It doubles as the
	// cache key for the compiled validator.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the LLM's output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish checks content against the request and builds the Response every
// SDK adapter returns.
func finish(req Request, content json.RawMessage, truncated bool, model string, in, out int) (*Response, error) {
	stop := StopEnd
	if truncated {
		stop = StopMaxTokens
	}
	if err := checkContent(req.Schema, content, stop); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      model,
		StopReason: stop,
	}, nil
}
