package domain

// AgentRunRequest is the request to start an agent run.
type AgentRunRequest struct {
	Goal    string            `json:"goal"`
	DryRun  bool              `json:"dry_run,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// ToolExecuteRequest is the request to execute a single tool out of band,
// typically after the caller resolved a confirmation prompt.
type ToolExecuteRequest struct {
	Args    map[string]any `json:"args"`
	TraceID string         `json:"trace_id,omitempty"`
}

// ToolExecuteResponse wraps the dispatcher result of a single tool execution.
type ToolExecuteResponse struct {
	TraceID string         `json:"trace_id"`
	Tool    string         `json:"tool"`
	Result  map[string]any `json:"result"`
}
