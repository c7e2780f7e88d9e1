package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/store"
)

func seedTask(t *testing.T, st *store.SQLiteStore, userID, taskID, title string, quadrant domain.Quadrant) {
	t.Helper()
	now := time.Now()
	require.NoError(t, st.CreateTask(context.Background(), &domain.Task{
		TaskID:    taskID,
		UserID:    userID,
		Title:     title,
		Status:    domain.TaskStatusActive,
		Priority:  domain.PriorityNone,
		Quadrant:  quadrant,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestListTasksEndpoint(t *testing.T) {
	e := echo.New()
	handler, st := newTestHandler(t)

	seedTask(t, st, "u1", "task_a", "Alpha", domain.QuadrantDoFirst)
	seedTask(t, st, "u1", "task_b", "Beta", domain.QuadrantEliminate)
	seedTask(t, st, "u2", "task_c", "Gamma", domain.QuadrantDoFirst)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks?quadrant=Q1", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.ListTasks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tasks []domain.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "task_a", resp.Tasks[0].TaskID, "other users and quadrants are filtered out")
}

func TestListTasksInvalidLimit(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks?limit=lots", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.ListTasks(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskEndpoint(t *testing.T) {
	e := echo.New()
	handler, st := newTestHandler(t)

	seedTask(t, st, "u1", "task_a", "Alpha", domain.QuadrantSchedule)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks/task_a", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/tasks/:task_id")
	c.SetParamNames("task_id")
	c.SetParamValues("task_a")

	require.NoError(t, handler.GetTask(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quadrant":"Q2"`)

	// Another user's task is a 404, not a leak.
	req = httptest.NewRequest(http.MethodGet, "/v1/tasks/task_a", nil)
	req.Header.Set(HeaderUserID, "u2")
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetPath("/v1/tasks/:task_id")
	c.SetParamNames("task_id")
	c.SetParamValues("task_a")

	require.NoError(t, handler.GetTask(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRunEventsEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	// A full agent run leaves a replayable trace behind.
	runAgent(t, handler, "u1", domain.AgentRunRequest{Goal: "list my tasks", TraceID: "run_replay"})

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run_replay/events", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/runs/:run_id/events")
	c.SetParamNames("run_id")
	c.SetParamValues("run_replay")

	require.NoError(t, handler.GetRunEvents(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID  string         `json:"run_id"`
		Status string         `json:"status"`
		Events []domain.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run_replay", resp.RunID)
	assert.Equal(t, "DONE", resp.Status)
	require.NotEmpty(t, resp.Events)
	assert.Equal(t, domain.EventTypeThinking, resp.Events[0].Type)
	assert.Equal(t, domain.EventTypeDone, resp.Events[len(resp.Events)-1].Type)
}

func TestGetRunEventsOtherUser(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	runAgent(t, handler, "u1", domain.AgentRunRequest{Goal: "list my tasks", TraceID: "run_private"})

	// Another user asking for the same run id should not learn it exists.
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run_private/events", nil)
	req.Header.Set(HeaderUserID, "u2")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/runs/:run_id/events")
	c.SetParamNames("run_id")
	c.SetParamValues("run_private")

	require.NoError(t, handler.GetRunEvents(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run not found")
}

func TestGetRunEventsRequiresHeader(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run_replay/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/runs/:run_id/events")
	c.SetParamNames("run_id")
	c.SetParamValues("run_replay")

	require.NoError(t, handler.GetRunEvents(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunEventsNotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run_missing/events", nil)
	req.Header.Set(HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/runs/:run_id/events")
	c.SetParamNames("run_id")
	c.SetParamValues("run_missing")

	require.NoError(t, handler.GetRunEvents(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
