// Package llm provides an abstraction over an OpenAI-compatible LLM backend.
package llm

import "context"

// StreamDelta is one incremental chunk of a streaming completion. Reasoning
// tokens and answer tokens arrive in separate fields.
type StreamDelta struct {
	ThinkingDelta string
	ContentDelta  string
}

// StreamCallback is called for each delta in a streaming response.
type StreamCallback func(delta StreamDelta) error

// Options tunes a single completion call.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
	JSONMode    bool
}

// Client defines the LLM operations the planner needs.
type Client interface {
	// Complete sends a chat completion request and returns the full text.
	Complete(ctx context.Context, messages []ChatMessage, opts Options) (string, error)

	// CompleteStream sends a streaming chat completion request. The callback
	// is called for each delta received.
	CompleteStream(ctx context.Context, messages []ChatMessage, opts Options, callback StreamCallback) error

	// HealthCheck reports whether the backend is reachable at all.
	HealthCheck(ctx context.Context) bool
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
