package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for chat-completion calls.
type Provider interface {
	// Generate sends a prompt and returns the model's reply.
	// When the request carries a Schema the provider asks for JSON
	// conforming to it and validates the reply before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system-role prompt. Interview prompts are sent as a
	// single system message with no conversation turns.
	System string

	// Messages is the conversation history. Usually empty.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw reply text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// split returns the system instruction and the turns to send to providers
// that need at least one conversation turn. A bare prompt is sent as the
// user turn with no system instruction.
func (r Request) split() (string, []Message) {
	if len(r.Messages) == 0 && r.System != "" {
		return "", []Message{{Role: RoleUser, Content: r.System}}
	}
	return r.System, r.Messages
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

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "answer-scorecard".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// had a Schema, otherwise the reply text as-is.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish checks a provider reply before it is returned. A structured reply
// cut off by the token limit is never valid JSON, so it is reported as
// truncated rather than as a schema violation.
func finish(req Request, content json.RawMessage, stop string) (json.RawMessage, error) {
	if req.Schema == nil {
		return content, nil
	}
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Text returns the reply verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
