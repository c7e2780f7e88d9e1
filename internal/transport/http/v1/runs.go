package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetRunEvents returns the persisted event trace of a run, for replay after
// the live stream ended. Scoped to the run's owner: another user's run is a
// 404, not a leak.
// GET /v1/runs/:run_id/events
func (h *Handler) GetRunEvents(c echo.Context) error {
	user := identity(c)
	if user == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
	}

	ctx := c.Request().Context()
	runID := c.Param("run_id")

	run, err := h.store.GetRun(ctx, runID)
	if err != nil {
		log.Printf("ERROR: failed to get run: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get run"})
	}
	if run == nil || run.UserID != user {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "run not found"})
	}

	events, err := h.store.GetEvents(ctx, runID)
	if err != nil {
		log.Printf("ERROR: failed to get events: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get events"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"run_id": runID,
		"status": run.Status,
		"events": events,
	})
}
