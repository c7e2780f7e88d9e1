package v1

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/planner"
)

// RunAgent starts an agent run and streams its events via SSE.
// POST /v1/agent/run
//
// Each planner event goes out as one `data: <json>` frame, flushed
// immediately so the client sees progress while the run is still executing.
func (h *Handler) RunAgent(c echo.Context) error {
	user := identity(c)
	if user == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
	}

	var req domain.AgentRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Goal == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "goal is required"})
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	flusher, _ := c.Response().Writer.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	events := h.planner.Run(c.Request().Context(), planner.RunRequest{
		Goal:     req.Goal,
		Identity: user,
		DryRun:   req.DryRun,
		TraceID:  req.TraceID,
		Context:  req.Context,
	})

	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			log.Printf("ERROR: failed to marshal agent event: %v", err)
			continue
		}
		if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
			// Client went away; the planner notices via the request context.
			return nil
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	return nil
}
