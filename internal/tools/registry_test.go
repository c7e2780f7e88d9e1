package tools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/store"
)

func noopImpl(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestRegisterRejectsIncompleteDescriptors(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&Descriptor{Impl: noopImpl})
	assert.ErrorContains(t, err, "name is required")

	err = r.Register(&Descriptor{Name: "nameless_impl"})
	assert.ErrorContains(t, err, "implementation is required")

	err = r.Register(&Descriptor{
		Name:      "bad_schema",
		Impl:      noopImpl,
		RawSchema: json.RawMessage(`{"type": 42}`),
	})
	assert.ErrorContains(t, err, "invalid schema")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Descriptor{Name: "echo", Impl: noopImpl}))

	err := r.Register(&Descriptor{Name: "echo", Impl: noopImpl})
	assert.ErrorContains(t, err, "already registered")
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Descriptor{
		Name: "strict",
		Impl: noopImpl,
		RawSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"user_id": {"type": "string"},
				"count": {"type": "integer"}
			},
			"required": ["user_id"],
			"additionalProperties": false
		}`),
	}))

	d, ok := r.Lookup("strict")
	require.True(t, ok)

	assert.NoError(t, d.ValidateArgs(map[string]any{"user_id": "u1", "count": 3}))
	assert.Error(t, d.ValidateArgs(map[string]any{"count": 3}), "missing required key")
	assert.Error(t, d.ValidateArgs(map[string]any{"user_id": "u1", "extra": true}), "unknown key")
	assert.Error(t, d.ValidateArgs(map[string]any{"user_id": 7}), "wrong type")
}

func TestValidateArgsWithoutSchema(t *testing.T) {
	d := &Descriptor{Name: "open", Impl: noopImpl}
	assert.NoError(t, d.ValidateArgs(map[string]any{"anything": "goes"}))
}

func TestDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	expected := []string{
		"analyze_task", "complete_task", "create_task", "delete_task",
		"get_task", "list_tasks", "update_task",
	}
	assert.Equal(t, expected, r.Names())
	assert.True(t, sort.StringsAreSorted(r.Names()))

	del, ok := r.Lookup("delete_task")
	require.True(t, ok)
	assert.True(t, del.RequiresConfirmation, "delete is the only destructive default")

	for _, name := range expected {
		d, ok := r.Lookup(name)
		require.True(t, ok)
		if name != "delete_task" {
			assert.False(t, d.RequiresConfirmation, name)
		}
		assert.NotEmpty(t, d.Description, name)
		assert.Error(t, d.ValidateArgs(map[string]any{}), "%s must require user_id", name)
	}
}
