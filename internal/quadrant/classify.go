// Package quadrant maps task attributes onto the four Eisenhower buckets.
package quadrant

import (
	"time"

	"github.com/taskpilot/taskpilot/internal/domain"
)

const threshold = 7

var priorityUrgency = map[domain.Priority]int{
	domain.PriorityHigh:   8,
	domain.PriorityMedium: 6,
	domain.PriorityLow:    4,
	domain.PriorityNone:   0,
}

var priorityImportance = map[domain.Priority]int{
	domain.PriorityHigh:   9,
	domain.PriorityMedium: 7,
	domain.PriorityLow:    5,
	domain.PriorityNone:   0,
}

// Fallback carries urgency/importance scores from a prior analysis, used only
// when neither priority nor due date contributes anything.
type Fallback struct {
	Urgency    int
	Importance int
}

// Classify maps a priority level and an optional due date to a quadrant.
// It is total: every input combination yields exactly one quadrant.
func Classify(priority domain.Priority, due *time.Time, fallback *Fallback) domain.Quadrant {
	return classifyAt(priority, due, fallback, time.Now())
}

func classifyAt(priority domain.Priority, due *time.Time, fallback *Fallback, now time.Time) domain.Quadrant {
	urgency := priorityUrgency[priority]
	if du := dueUrgency(due, now); du > urgency {
		urgency = du
	}
	importance := priorityImportance[priority]

	if urgency == 0 && importance == 0 && fallback != nil {
		urgency = fallback.Urgency
		importance = fallback.Importance
	}

	switch {
	case urgency >= threshold && importance >= threshold:
		return domain.QuadrantDoFirst
	case importance >= threshold:
		return domain.QuadrantSchedule
	case urgency >= threshold:
		return domain.QuadrantDelegate
	default:
		return domain.QuadrantEliminate
	}
}

// dueUrgency scores how soon a task is due on a 0-10 ladder.
func dueUrgency(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	remaining := due.Sub(now)
	switch {
	case remaining < 0:
		return 10
	case remaining <= 24*time.Hour:
		return 9
	case remaining <= 3*24*time.Hour:
		return 8
	case remaining <= 7*24*time.Hour:
		return 6
	case remaining <= 14*24*time.Hour:
		return 4
	default:
		return 2
	}
}
