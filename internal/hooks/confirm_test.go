package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpilot/taskpilot/internal/policy"
)

func TestConfirmationGate(t *testing.T) {
	ctx := context.Background()
	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	require.NoError(t, err)

	t.Run("not enforced", func(t *testing.T) {
		gate := ConfirmationGate(engine, false)
		result, err := gate(ctx, "delete_task", map[string]any{"task_id": "t1"}, &CallContext{Identity: "u1"})
		require.NoError(t, err)
		assert.Equal(t, ActionAllow, result.Action)
	})

	t.Run("enforced without confirm", func(t *testing.T) {
		gate := ConfirmationGate(engine, true)
		result, err := gate(ctx, "delete_task", map[string]any{"task_id": "t1"}, &CallContext{Identity: "u1"})
		require.NoError(t, err)
		assert.Equal(t, ActionDeny, result.Action)
		assert.Contains(t, result.Reason, "confirmation required")
	})

	t.Run("enforced with confirm", func(t *testing.T) {
		gate := ConfirmationGate(engine, true)
		result, err := gate(ctx, "delete_task", map[string]any{"task_id": "t1", "confirm": true}, &CallContext{Identity: "u1"})
		require.NoError(t, err)
		assert.Equal(t, ActionAllow, result.Action)
	})

	t.Run("non-destructive tool ignored", func(t *testing.T) {
		gate := ConfirmationGate(engine, true)
		result, err := gate(ctx, "list_tasks", map[string]any{}, &CallContext{Identity: "u1"})
		require.NoError(t, err)
		assert.Equal(t, ActionAllow, result.Action)
	})
}
