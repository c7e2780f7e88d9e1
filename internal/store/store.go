// Package store provides persistence for tasks, runs, and events.
package store

import (
	"context"

	"github.com/taskpilot/taskpilot/internal/domain"
)

// TaskFilter narrows task listing. Zero values mean no constraint.
type TaskFilter struct {
	Status   domain.TaskStatus
	Quadrant domain.Quadrant
	Limit    int
}

// Store defines the persistence operations taskpilot needs.
type Store interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, userID, taskID string, hard bool) error

	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus) error
	UpdateRunCompleted(ctx context.Context, runID string, status domain.RunStatus, errPayload []byte) error

	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, runID string) ([]domain.Event, error)

	Close() error
}
