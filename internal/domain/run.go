package domain

import (
	"encoding/json"
	"time"
)

// Run represents a single execution of the agent planner.
type Run struct {
	RunID     string          `json:"run_id"`
	UserID    string          `json:"user_id"`
	Goal      string          `json:"goal"`
	Status    RunStatus       `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
}

// Event is one persisted trace event of a run, kept for replay.
type Event struct {
	EventID string          `json:"event_id"`
	RunID   string          `json:"run_id"`
	Ts      int64           `json:"ts"` // Unix milliseconds
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
