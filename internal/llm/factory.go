package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "TASKPILOT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewClient creates an LLM client based on the TASKPILOT_MODE environment
// variable. If TASKPILOT_MODE=MOCK, returns a MockClient; otherwise a real
// HTTP client.
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("TASKPILOT_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}
	return NewHTTPClient(baseURL, apiKey, timeout)
}
