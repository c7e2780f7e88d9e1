package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/quadrant"
	"github.com/taskpilot/taskpilot/internal/store"
)

func listTasks(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	filter := store.TaskFilter{
		Status:   domain.TaskStatus(optString(args, "status")),
		Quadrant: domain.Quadrant(optString(args, "quadrant")),
	}
	if limit, ok := args["limit"].(float64); ok {
		filter.Limit = int(limit)
	}

	tasks, err := st.ListTasks(ctx, identity, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return map[string]any{
		"summary": fmt.Sprintf("Found %d task(s)", len(tasks)),
		"tasks":   tasks,
	}, nil
}

func getTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	taskID := optString(args, "task_id")
	task, err := st.GetTask(ctx, identity, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	return map[string]any{
		"summary": fmt.Sprintf("Task %q is in %s", task.Title, task.EffectiveQuadrant()),
		"task":    task,
	}, nil
}

func createTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	title := optString(args, "title")
	priority := domain.Priority(optStringDefault(args, "priority", string(domain.PriorityNone)))
	due, err := optDueDate(args)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		TaskID:      "task_" + uuid.New().String()[:8],
		UserID:      identity,
		Title:       title,
		Description: optString(args, "description"),
		Status:      domain.TaskStatusActive,
		Priority:    priority,
		DueDate:     due,
		Quadrant:    quadrant.Classify(priority, due, fallbackScores(args)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if manual := optString(args, "manual_quadrant"); manual != "" {
		q := domain.Quadrant(manual)
		task.ManualQuadrant = &q
	}

	lock := store.LockFor(st)
	lock.Lock()
	defer lock.Unlock()
	if err := st.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return map[string]any{
		"summary": fmt.Sprintf("Created task %q in %s", task.Title, task.EffectiveQuadrant()),
		"task":    task,
	}, nil
}

func updateTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	taskID := optString(args, "task_id")
	task, err := st.GetTask(ctx, identity, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}

	if title := optString(args, "title"); title != "" {
		task.Title = title
	}
	if _, ok := args["description"]; ok {
		task.Description = optString(args, "description")
	}
	if p := optString(args, "priority"); p != "" {
		task.Priority = domain.Priority(p)
	}
	if _, ok := args["due_date"]; ok {
		due, err := optDueDate(args)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if manual := optString(args, "manual_quadrant"); manual != "" {
		q := domain.Quadrant(manual)
		task.ManualQuadrant = &q
	}

	// Recompute the derived quadrant; the manual override, when set, still
	// wins via EffectiveQuadrant.
	task.Quadrant = quadrant.Classify(task.Priority, task.DueDate, nil)
	task.UpdatedAt = time.Now()

	lock := store.LockFor(st)
	lock.Lock()
	defer lock.Unlock()
	if err := st.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return map[string]any{
		"summary": fmt.Sprintf("Updated task %q, now in %s", task.Title, task.EffectiveQuadrant()),
		"task":    task,
	}, nil
}

func completeTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	taskID := optString(args, "task_id")
	task, err := st.GetTask(ctx, identity, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}

	task.Status = domain.TaskStatusCompleted
	task.UpdatedAt = time.Now()

	lock := store.LockFor(st)
	lock.Lock()
	defer lock.Unlock()
	if err := st.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return map[string]any{
		"summary": fmt.Sprintf("Completed task %q", task.Title),
		"task":    task,
	}, nil
}

func deleteTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	taskID := optString(args, "task_id")
	hard, _ := args["hard"].(bool)

	task, err := st.GetTask(ctx, identity, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}

	lock := store.LockFor(st)
	lock.Lock()
	defer lock.Unlock()
	if err := st.DeleteTask(ctx, identity, taskID, hard); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return map[string]any{
		"summary": fmt.Sprintf("Deleted task %q", task.Title),
		"task_id": taskID,
	}, nil
}

func analyzeTask(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	priority := domain.Priority(optStringDefault(args, "priority", string(domain.PriorityNone)))
	due, err := optDueDate(args)
	if err != nil {
		return nil, err
	}

	// An existing task's stored attributes win over inline ones, and its
	// manual override wins over everything.
	if taskID := optString(args, "task_id"); taskID != "" {
		task, err := st.GetTask(ctx, identity, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}
		if task == nil {
			return nil, fmt.Errorf("task %s not found", taskID)
		}
		if task.ManualQuadrant != nil {
			return map[string]any{
				"summary":  fmt.Sprintf("Task %q is pinned to %s (%s)", task.Title, *task.ManualQuadrant, quadrantLabel(*task.ManualQuadrant)),
				"quadrant": *task.ManualQuadrant,
				"manual":   true,
			}, nil
		}
		priority = task.Priority
		due = task.DueDate
	}

	q := quadrant.Classify(priority, due, fallbackScores(args))
	return map[string]any{
		"summary":  fmt.Sprintf("Classified as %s (%s)", q, quadrantLabel(q)),
		"quadrant": q,
	}, nil
}

func quadrantLabel(q domain.Quadrant) string {
	switch q {
	case domain.QuadrantDoFirst:
		return "do first"
	case domain.QuadrantSchedule:
		return "schedule"
	case domain.QuadrantDelegate:
		return "delegate"
	default:
		return "eliminate"
	}
}

func fallbackScores(args map[string]any) *quadrant.Fallback {
	urgency, uok := args["urgency"].(float64)
	importance, iok := args["importance"].(float64)
	if !uok && !iok {
		return nil
	}
	return &quadrant.Fallback{Urgency: int(urgency), Importance: int(importance)}
}

func optString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func optStringDefault(args map[string]any, key, defaultVal string) string {
	if s := optString(args, key); s != "" {
		return s
	}
	return defaultVal
}

func optDueDate(args map[string]any) (*time.Time, error) {
	raw := optString(args, "due_date")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date %q: %w", raw, err)
	}
	return &t, nil
}
