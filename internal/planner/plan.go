// Package planner turns a natural-language goal into an ordered list of tool
// calls and streams typed progress events while executing them.
package planner

import "github.com/taskpilot/taskpilot/internal/domain"

// Step is one planned tool invocation.
type Step struct {
	Tool                 string         `json:"tool"`
	Args                 map[string]any `json:"args"`
	Summary              string         `json:"summary"`
	ConfirmationRequired bool           `json:"confirmation_required,omitempty"`
}

// Plan is an ordered sequence of steps plus an optional planning note. An
// empty step list means the goal is conversational.
type Plan struct {
	Steps   []Step `json:"steps"`
	Message string `json:"message,omitempty"`
}

// Event is one unit of the planner's output stream. Data always carries
// trace_id.
type Event struct {
	Type domain.EventType `json:"event"`
	Data map[string]any   `json:"data"`
}

// RunRequest describes one planner run.
type RunRequest struct {
	Goal     string
	Identity string
	DryRun   bool
	TraceID  string
	Context  map[string]string
}
