package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskpilot/taskpilot/internal/dispatch"
	"github.com/taskpilot/taskpilot/internal/domain"
)

// ExecuteTool runs a single tool outside of an agent run, typically to retry
// a destructive call after the user confirmed it.
// POST /v1/tools/:tool_name/execute
func (h *Handler) ExecuteTool(c echo.Context) error {
	user := identity(c)
	if user == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
	}

	toolName := c.Param("tool_name")

	var req domain.ToolExecuteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	traceID := req.TraceID
	if traceID == "" {
		traceID = "call_" + uuid.New().String()[:8]
	}

	result, err := h.dispatcher.Dispatch(c.Request().Context(), toolName, req.Args, user, traceID, nil)
	if err != nil {
		var unknown *dispatch.UnknownToolError
		if errors.As(err, &unknown) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		var confirm *dispatch.ConfirmationRequiredError
		if errors.As(err, &confirm) {
			// The caller re-invokes with confirm=true once the user agreed.
			return c.JSON(http.StatusConflict, map[string]any{
				"error":    "confirmation_required",
				"tool":     confirm.Tool,
				"args":     confirm.Args,
				"trace_id": traceID,
			})
		}
		log.Printf("ERROR: trace=%s tool %s execution failed: %v", traceID, toolName, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.ToolExecuteResponse{
		TraceID: traceID,
		Tool:    toolName,
		Result:  result,
	})
}
