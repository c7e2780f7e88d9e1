// Package domain defines the core domain models for taskpilot.
package domain

// TaskStatus represents the lifecycle status of a task.
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "ACTIVE"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusDeleted   TaskStatus = "DELETED"
)

// Priority is the discrete priority level of a task.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Quadrant is one of the four Eisenhower priority buckets.
type Quadrant string

const (
	QuadrantDoFirst   Quadrant = "Q1" // urgent and important
	QuadrantSchedule  Quadrant = "Q2" // important, not urgent
	QuadrantDelegate  Quadrant = "Q3" // urgent, not important
	QuadrantEliminate Quadrant = "Q4" // neither
)

// RunStatus represents the status of an agent run.
type RunStatus string

const (
	RunStatusCreated RunStatus = "CREATED"
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusDone    RunStatus = "DONE"
	RunStatusFailed  RunStatus = "FAILED"
)

// EventType represents the type of an agent event.
type EventType string

const (
	EventTypeThinking    EventType = "thinking"
	EventTypeStep        EventType = "step"
	EventTypeToolRequest EventType = "tool_request"
	EventTypeToolResult  EventType = "tool_result"
	EventTypeMessage     EventType = "message"
	EventTypeError       EventType = "error"
	EventTypeDone        EventType = "done"
)
