package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/taskpilot/taskpilot/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'none',
			due_date DATETIME,
			quadrant TEXT NOT NULL DEFAULT 'Q4',
			manual_quadrant TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, status)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			goal TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(user_id, started_at)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTask inserts a new task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *domain.Task) error {
	var manual any
	if task.ManualQuadrant != nil {
		manual = string(*task.ManualQuadrant)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, user_id, title, description, status, priority, due_date, quadrant, manual_quadrant, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskID, task.UserID, task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.Quadrant, manual, task.CreatedAt, task.UpdatedAt)
	return err
}

// GetTask retrieves a task by ID, scoped to the owning user.
func (s *SQLiteStore) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT task_id, user_id, title, description, status, priority, due_date, quadrant, manual_quadrant, created_at, updated_at
		 FROM tasks WHERE task_id = ? AND user_id = ?`, taskID, userID)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks retrieves tasks for a user matching the filter, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]domain.Task, error) {
	query := `SELECT task_id, user_id, title, description, status, priority, due_date, quadrant, manual_quadrant, created_at, updated_at
	          FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	} else {
		query += ` AND status != ?`
		args = append(args, domain.TaskStatusDeleted)
	}
	if filter.Quadrant != "" {
		query += ` AND COALESCE(manual_quadrant, quadrant) = ?`
		args = append(args, filter.Quadrant)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites all mutable fields of the task row.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *domain.Task) error {
	var manual any
	if task.ManualQuadrant != nil {
		manual = string(*task.ManualQuadrant)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, quadrant = ?, manual_quadrant = ?, updated_at = ?
		 WHERE task_id = ? AND user_id = ?`,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.Quadrant, manual, task.UpdatedAt, task.TaskID, task.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

// DeleteTask removes a task. Soft delete marks the row DELETED; hard delete
// removes it entirely.
func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, taskID string, hard bool) error {
	var res sql.Result
	var err error
	if hard {
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM tasks WHERE task_id = ? AND user_id = ?`, taskID, userID)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE tasks SET status = ?, updated_at = ? WHERE task_id = ? AND user_id = ?`,
			domain.TaskStatusDeleted, time.Now(), taskID, userID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var due sql.NullTime
	var manual sql.NullString
	err := row.Scan(&task.TaskID, &task.UserID, &task.Title, &description, &task.Status,
		&task.Priority, &due, &task.Quadrant, &manual, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = description.String
	}
	if due.Valid {
		t := due.Time
		task.DueDate = &t
	}
	if manual.Valid {
		q := domain.Quadrant(manual.String)
		task.ManualQuadrant = &q
	}
	return &task, nil
}

// CreateRun inserts a new run.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, user_id, goal, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.UserID, run.Goal, run.Status, run.StartedAt)
	return err
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	var run domain.Run
	var endedAt sql.NullTime
	var errPayload sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, user_id, goal, status, started_at, ended_at, error FROM runs WHERE run_id = ?`,
		runID).Scan(&run.RunID, &run.UserID, &run.Goal, &run.Status, &run.StartedAt, &endedAt, &errPayload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		run.EndedAt = &t
	}
	if errPayload.Valid {
		run.Error = []byte(errPayload.String)
	}
	return &run, nil
}

// UpdateRunStatus updates the status of a run.
func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus) error {
	_, err := s.db.ExecContext(ctx, `UPDATE runs SET status = ? WHERE run_id = ?`, status, runID)
	return err
}

// UpdateRunCompleted marks a run as completed with a terminal status.
func (s *SQLiteStore) UpdateRunCompleted(ctx context.Context, runID string, status domain.RunStatus, errPayload []byte) error {
	var errStr any
	if len(errPayload) > 0 {
		errStr = string(errPayload)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, ended_at = ?, error = ? WHERE run_id = ?`,
		status, time.Now(), errStr, runID)
	return err
}

// CreateEvent inserts a new trace event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	var payload any
	if len(event.Payload) > 0 {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, run_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.RunID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves all events for a run ordered by timestamp.
func (s *SQLiteStore) GetEvents(ctx context.Context, runID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, run_id, ts, type, payload FROM events WHERE run_id = ? ORDER BY ts, rowid`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.RunID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid {
			event.Payload = []byte(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
