package v1

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/store"
)

// ListTasks lists the caller's tasks.
// GET /v1/tasks?status=ACTIVE&quadrant=Q1&limit=20
func (h *Handler) ListTasks(c echo.Context) error {
	user := identity(c)
	if user == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
	}

	filter := store.TaskFilter{
		Status:   domain.TaskStatus(c.QueryParam("status")),
		Quadrant: domain.Quadrant(c.QueryParam("quadrant")),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		filter.Limit = limit
	}

	tasks, err := h.store.ListTasks(c.Request().Context(), user, filter)
	if err != nil {
		log.Printf("ERROR: failed to list tasks: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetTask returns one of the caller's tasks.
// GET /v1/tasks/:task_id
func (h *Handler) GetTask(c echo.Context) error {
	user := identity(c)
	if user == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
	}

	taskID := c.Param("task_id")
	task, err := h.store.GetTask(c.Request().Context(), user, taskID)
	if err != nil {
		log.Printf("ERROR: failed to get task: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
	}
	if task == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"task":     task,
		"quadrant": task.EffectiveQuadrant(),
	})
}
