// Package dispatch runs tool calls through hooks, schema validation, and the
// tool implementation.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/taskpilot/taskpilot/internal/hooks"
	"github.com/taskpilot/taskpilot/internal/store"
	"github.com/taskpilot/taskpilot/internal/tools"
)

// UnknownToolError is a caller error: the requested tool does not exist.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ConfirmationRequiredError interrupts dispatch of a destructive tool called
// without a confirmation flag. It carries what the caller needs to re-prompt
// and re-invoke.
type ConfirmationRequiredError struct {
	Tool string
	Args map[string]any
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("confirmation required for tool %s", e.Tool)
}

// Dispatcher validates and executes tool calls.
type Dispatcher struct {
	registry *tools.Registry
	chain    *hooks.Chain
	store    *store.SQLiteStore
}

// New creates a dispatcher.
func New(registry *tools.Registry, chain *hooks.Chain, st *store.SQLiteStore) *Dispatcher {
	return &Dispatcher{registry: registry, chain: chain, store: st}
}

// Registry exposes the dispatcher's tool registry.
func (d *Dispatcher) Registry() *tools.Registry {
	return d.registry
}

// Dispatch runs one tool call. Policy denials and validation failures come
// back as in-band {error, summary} payloads so a streaming caller's
// connection stays alive; an unknown tool and a missing confirmation are
// returned as errors because the caller must react differently to them.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, rawArgs map[string]any, identity, traceID string, callCtx *hooks.CallContext) (map[string]any, error) {
	descriptor, ok := d.registry.Lookup(toolName)
	if !ok {
		return nil, &UnknownToolError{Name: toolName}
	}

	if rawArgs == nil {
		rawArgs = map[string]any{}
	}
	if callCtx == nil {
		callCtx = &hooks.CallContext{}
	}
	if callCtx.Identity == "" {
		callCtx.Identity = identity
	}

	result := d.chain.Run(ctx, toolName, rawArgs, callCtx)
	switch result.Action {
	case hooks.ActionDeny:
		log.Printf("INFO: trace=%s tool=%s denied: %s", traceID, toolName, result.Reason)
		return map[string]any{
			"error":   result.Reason,
			"summary": "Cannot execute: " + result.Reason,
		}, nil
	case hooks.ActionModify:
		rawArgs = result.Args
	}

	if err := descriptor.ValidateArgs(rawArgs); err != nil {
		log.Printf("INFO: trace=%s tool=%s invalid input: %v", traceID, toolName, err)
		return map[string]any{
			"error":   fmt.Sprintf("Invalid input: %v", err),
			"summary": toolName + " failed validation",
		}, nil
	}

	if descriptor.RequiresConfirmation {
		if confirmed, _ := rawArgs["confirm"].(bool); !confirmed {
			return nil, &ConfirmationRequiredError{Tool: toolName, Args: rawArgs}
		}
	}

	out, err := descriptor.Impl(ctx, rawArgs, identity, d.store)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", toolName, err)
	}
	return out, nil
}
