package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveQuadrant(t *testing.T) {
	task := &Task{Quadrant: QuadrantSchedule}
	assert.Equal(t, QuadrantSchedule, task.EffectiveQuadrant())

	pin := QuadrantDoFirst
	task.ManualQuadrant = &pin
	assert.Equal(t, QuadrantDoFirst, task.EffectiveQuadrant())
}

func TestResolveTaskConflict(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pin := QuadrantSchedule

	local := &Task{
		TaskID:         "task_1",
		Title:          "Local title",
		Priority:       PriorityLow,
		Quadrant:       QuadrantEliminate,
		ManualQuadrant: &pin,
		UpdatedAt:      base,
	}

	t.Run("newer external wins", func(t *testing.T) {
		external := &Task{
			TaskID:    "task_1",
			Title:     "External title",
			Priority:  PriorityHigh,
			Quadrant:  QuadrantDoFirst,
			UpdatedAt: base.Add(time.Hour),
		}
		merged := ResolveTaskConflict(local, external)
		assert.Equal(t, "External title", merged.Title)
		assert.Equal(t, PriorityHigh, merged.Priority)
		assert.Equal(t, base.Add(time.Hour), merged.UpdatedAt)
	})

	t.Run("older external loses", func(t *testing.T) {
		external := &Task{
			TaskID:    "task_1",
			Title:     "Stale title",
			UpdatedAt: base.Add(-time.Hour),
		}
		merged := ResolveTaskConflict(local, external)
		assert.Equal(t, "Local title", merged.Title)
		assert.Equal(t, base, merged.UpdatedAt)
	})

	t.Run("missing external timestamp treated as newer", func(t *testing.T) {
		external := &Task{TaskID: "task_1", Title: "Untimed title"}
		merged := ResolveTaskConflict(local, external)
		assert.Equal(t, "Untimed title", merged.Title)
		assert.Equal(t, base, merged.UpdatedAt, "local timestamp stays when external has none")
	})

	t.Run("manual pin survives every merge", func(t *testing.T) {
		external := &Task{
			TaskID:    "task_1",
			Quadrant:  QuadrantDoFirst,
			UpdatedAt: base.Add(time.Hour),
		}
		merged := ResolveTaskConflict(local, external)
		assert.Equal(t, QuadrantSchedule, merged.EffectiveQuadrant())
	})
}
