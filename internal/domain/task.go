package domain

import "time"

// Task represents a single task owned by a user.
type Task struct {
	TaskID      string     `json:"task_id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	// Quadrant is the automatically computed bucket. ManualQuadrant, when
	// set, always takes precedence over it.
	Quadrant       Quadrant  `json:"quadrant"`
	ManualQuadrant *Quadrant `json:"manual_quadrant,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveQuadrant returns the manual override when present, otherwise the
// computed quadrant.
func (t *Task) EffectiveQuadrant() Quadrant {
	if t.ManualQuadrant != nil {
		return *t.ManualQuadrant
	}
	return t.Quadrant
}

// ResolveTaskConflict merges a concurrently arriving external copy of a task
// into the local one. The newer UpdatedAt wins field by field, except the
// manual quadrant override, which is never overwritten by external data.
// A missing external timestamp is treated as newer.
func ResolveTaskConflict(local, external *Task) *Task {
	externalNewer := external.UpdatedAt.IsZero() || external.UpdatedAt.After(local.UpdatedAt)

	merged := *local
	if externalNewer {
		merged.Title = external.Title
		merged.Description = external.Description
		merged.Status = external.Status
		merged.Priority = external.Priority
		merged.DueDate = external.DueDate
		merged.Quadrant = external.Quadrant
		if !external.UpdatedAt.IsZero() {
			merged.UpdatedAt = external.UpdatedAt
		}
	}
	// Protected field: a manual override set locally survives any merge.
	merged.ManualQuadrant = local.ManualQuadrant
	return &merged
}
