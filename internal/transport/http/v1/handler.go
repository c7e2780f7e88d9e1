// Package v1 provides the public HTTP API handlers for taskpilot.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskpilot/taskpilot/internal/dispatch"
	"github.com/taskpilot/taskpilot/internal/llm"
	"github.com/taskpilot/taskpilot/internal/planner"
	"github.com/taskpilot/taskpilot/internal/store"
)

// HeaderUserID identifies the caller; every task-scoped endpoint requires it.
const HeaderUserID = "X-User-ID"

// Handler handles HTTP requests.
type Handler struct {
	planner    *planner.Planner
	dispatcher *dispatch.Dispatcher
	store      store.Store
	llm        llm.Client
}

// NewHandler creates a new handler.
func NewHandler(p *planner.Planner, d *dispatch.Dispatcher, st store.Store, llmClient llm.Client) *Handler {
	return &Handler{
		planner:    p,
		dispatcher: d,
		store:      st,
		llm:        llmClient,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Agent API
	e.POST("/v1/agent/run", h.RunAgent)

	// Tool API (out-of-band single tool execution)
	e.POST("/v1/tools/:tool_name/execute", h.ExecuteTool)

	// Run trace replay
	e.GET("/v1/runs/:run_id/events", h.GetRunEvents)

	// Task API
	e.GET("/v1/tasks", h.ListTasks)
	e.GET("/v1/tasks/:task_id", h.GetTask)

	e.GET("/health", h.Health)
}

// Health returns health status, including LLM backend reachability.
func (h *Handler) Health(c echo.Context) error {
	llmStatus := "ok"
	if !h.llm.HealthCheck(c.Request().Context()) {
		llmStatus = "unreachable"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
		"llm":     llmStatus,
	})
}

// identity extracts the caller identity from the request headers.
func identity(c echo.Context) string {
	return c.Request().Header.Get(HeaderUserID)
}
