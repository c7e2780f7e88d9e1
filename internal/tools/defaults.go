package tools

import (
	"encoding/json"

	"github.com/taskpilot/taskpilot/internal/hooks"
	"github.com/taskpilot/taskpilot/internal/policy"
)

const (
	taskIDProp    = `"task_id": {"type": "string", "minLength": 1}`
	userIDProp    = `"user_id": {"type": "string", "minLength": 1}`
	priorityProp  = `"priority": {"type": "string", "enum": ["none", "low", "medium", "high"]}`
	dueDateProp   = `"due_date": {"type": "string"}`
	quadrantProp  = `"manual_quadrant": {"type": "string", "enum": ["Q1", "Q2", "Q3", "Q4"]}`
	scoreProps    = `"urgency": {"type": "number", "minimum": 0, "maximum": 10}, "importance": {"type": "number", "minimum": 0, "maximum": 10}`
	confirmProp   = `"confirm": {"type": "boolean"}`
)

// NewDefaultRegistry populates the registry with the task tools.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()

	definitions := []*Descriptor{
		{
			Name:        "list_tasks",
			Description: "List the caller's tasks, optionally filtered by status or quadrant.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `,
					"status": {"type": "string", "enum": ["ACTIVE", "COMPLETED", "DELETED"]},
					"quadrant": {"type": "string", "enum": ["Q1", "Q2", "Q3", "Q4"]},
					"limit": {"type": "integer", "minimum": 1, "maximum": 100}
				},
				"required": ["user_id"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{
				{"user_id": "u1"},
				{"user_id": "u1", "status": "ACTIVE", "quadrant": "Q1"},
			},
			Impl: listTasks,
		},
		{
			Name:        "get_task",
			Description: "Fetch one task by ID.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `, ` + taskIDProp + `},
				"required": ["user_id", "task_id"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{{"user_id": "u1", "task_id": "task_ab12cd34"}},
			Impl:     getTask,
		},
		{
			Name:        "create_task",
			Description: "Create a new task. The quadrant is derived from priority and due date unless pinned manually.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `,
					"title": {"type": "string", "minLength": 1, "maxLength": 500},
					"description": {"type": "string", "maxLength": 5000},
					` + priorityProp + `, ` + dueDateProp + `, ` + quadrantProp + `, ` + scoreProps + `
				},
				"required": ["user_id", "title"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{
				{"user_id": "u1", "title": "Prepare board deck", "priority": "high", "due_date": "2026-09-05T17:00:00Z"},
			},
			Impl: createTask,
		},
		{
			Name:        "update_task",
			Description: "Update fields of an existing task and re-derive its quadrant.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `, ` + taskIDProp + `,
					"title": {"type": "string", "minLength": 1, "maxLength": 500},
					"description": {"type": "string", "maxLength": 5000},
					` + priorityProp + `, ` + dueDateProp + `, ` + quadrantProp + `
				},
				"required": ["user_id", "task_id"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{
				{"user_id": "u1", "task_id": "task_ab12cd34", "priority": "medium"},
			},
			Impl: updateTask,
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as completed.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `, ` + taskIDProp + `},
				"required": ["user_id", "task_id"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{{"user_id": "u1", "task_id": "task_ab12cd34"}},
			Impl:     completeTask,
		},
		{
			Name:        "delete_task",
			Description: "Delete a task. Soft delete by default; destructive, so confirmation is required.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `, ` + taskIDProp + `,
					"hard": {"type": "boolean"}, ` + confirmProp + `
				},
				"required": ["user_id", "task_id"],
				"additionalProperties": false
			}`),
			Examples:             []map[string]any{{"user_id": "u1", "task_id": "task_ab12cd34", "confirm": true}},
			RequiresConfirmation: true,
			Impl:                 deleteTask,
		},
		{
			Name:        "analyze_task",
			Description: "Classify a task (existing or hypothetical) into its Eisenhower quadrant.",
			RawSchema: json.RawMessage(`{
				"type": "object",
				"properties": {` + userIDProp + `, ` + taskIDProp + `,
					` + priorityProp + `, ` + dueDateProp + `, ` + scoreProps + `
				},
				"required": ["user_id"],
				"additionalProperties": false
			}`),
			Examples: []map[string]any{
				{"user_id": "u1", "priority": "high", "due_date": "2026-09-01T09:00:00Z"},
			},
			Impl: analyzeTask,
		},
	}

	for _, d := range definitions {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultHookChain wires the safety hooks onto the default tools in their
// fixed order: sanitization, duplicate rejection, ownership, confirmation.
func NewDefaultHookChain(engine *policy.Engine, enforceConfirmation bool) *hooks.Chain {
	chain := hooks.NewChain()
	all := []string{"list_tasks", "get_task", "create_task", "update_task", "complete_task", "delete_task", "analyze_task"}

	chain.AddAll([]string{"create_task", "update_task"}, hooks.SanitizeInput)
	chain.Add("create_task", hooks.RejectDuplicateContent)
	chain.AddAll(all, hooks.EnforceOwnership)
	chain.AddAll(all, hooks.ConfirmationGate(engine, enforceConfirmation))
	return chain
}
