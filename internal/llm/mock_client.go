package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a mock implementation of Client for testing and local runs
// without a backend.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Client.
var _ Client = (*MockClient)(nil)

// Complete returns a canned response based on the last user message.
func (m *MockClient) Complete(ctx context.Context, messages []ChatMessage, opts Options) (string, error) {
	if opts.JSONMode {
		return `{"steps":[],"message":"[MOCK] Nothing to do."}`, nil
	}
	return fmt.Sprintf("[MOCK] Received your message: %q.", truncate(lastUserMessage(messages), 100)), nil
}

// CompleteStream simulates a streaming response in small chunks.
func (m *MockClient) CompleteStream(ctx context.Context, messages []ChatMessage, opts Options, callback StreamCallback) error {
	if err := callback(StreamDelta{ThinkingDelta: "[MOCK] thinking..."}); err != nil {
		return err
	}

	response := fmt.Sprintf("[MOCK] Received your message: %q.", truncate(lastUserMessage(messages), 100))
	for _, chunk := range splitIntoChunks(response, 10) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := callback(StreamDelta{ContentDelta: chunk}); err != nil {
			return err
		}
	}
	return nil
}

// HealthCheck always succeeds for the mock.
func (m *MockClient) HealthCheck(ctx context.Context) bool {
	return true
}

func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func splitIntoChunks(s string, chunkSize int) []string {
	if len(s) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := min(i+chunkSize, len(s))
		chunks = append(chunks, s[i:end])
	}
	return chunks
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen]) + "..."
}
