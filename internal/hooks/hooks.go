// Package hooks implements pre-execution guards for tool calls. Each hook can
// allow a call, deny it with a reason, or modify its arguments.
package hooks

import (
	"context"
	"fmt"
	"log"
	"maps"
)

// Action is the outcome of a hook.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionDeny   Action = "deny"
	ActionModify Action = "modify"
)

// Result is the value returned by every hook.
type Result struct {
	Action Action
	Reason string
	// Args is the replacement argument mapping; present only when
	// Action is ActionModify.
	Args map[string]any
}

// Allow is the aggregate result when every hook passes.
func Allow() Result { return Result{Action: ActionAllow} }

// Deny builds a denial with a reason.
func Deny(reason string) Result { return Result{Action: ActionDeny, Reason: reason} }

// Modify builds a modification carrying replacement args.
func Modify(reason string, args map[string]any) Result {
	return Result{Action: ActionModify, Reason: reason, Args: args}
}

// CallContext carries caller information into hooks. Identity is the
// authenticated caller identity; empty means unauthenticated context and
// ownership checks are deferred downstream.
type CallContext struct {
	Identity string
	Extra    map[string]string
}

// Hook inspects a pending tool call. A returned error is treated as a denial;
// hooks must never tear down the dispatch pipeline.
type Hook func(ctx context.Context, tool string, args map[string]any, call *CallContext) (Result, error)

// Chain holds the ordered hook list per tool name.
type Chain struct {
	hooks map[string][]Hook
}

// NewChain creates an empty hook chain.
func NewChain() *Chain {
	return &Chain{hooks: make(map[string][]Hook)}
}

// Add appends a hook to a tool's chain.
func (c *Chain) Add(tool string, h Hook) {
	c.hooks[tool] = append(c.hooks[tool], h)
}

// AddAll appends a hook to every listed tool.
func (c *Chain) AddAll(tools []string, h Hook) {
	for _, tool := range tools {
		c.Add(tool, h)
	}
}

// Run executes the tool's hooks in order, short-circuiting on the first deny
// or modify. If every hook allows, the aggregate result is allow with the
// original args.
func (c *Chain) Run(ctx context.Context, tool string, args map[string]any, call *CallContext) Result {
	for _, h := range c.hooks[tool] {
		result := runOne(ctx, h, tool, args, call)
		if result.Action != ActionAllow {
			return result
		}
	}
	return Allow()
}

func runOne(ctx context.Context, h Hook, tool string, args map[string]any, call *CallContext) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: hook panicked for tool %s: %v", tool, r)
			result = Deny(fmt.Sprintf("hook failure: %v", r))
		}
	}()

	result, err := h(ctx, tool, args, call)
	if err != nil {
		return Deny(err.Error())
	}
	return result
}

func cloneArgs(args map[string]any) map[string]any {
	cloned := make(map[string]any, len(args))
	maps.Copy(cloned, args)
	return cloned
}
