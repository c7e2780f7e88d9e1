package hooks

import (
	"context"
	"log"

	"github.com/taskpilot/taskpilot/internal/policy"
)

// ConfirmationGate consults the policy engine for destructive tools. The
// enforce toggle keeps the gate observable without acting on it; when off,
// the gate records the decision and allows.
func ConfirmationGate(engine *policy.Engine, enforce bool) Hook {
	return func(ctx context.Context, tool string, args map[string]any, call *CallContext) (Result, error) {
		input := map[string]any{
			"tool_name": tool,
			"args":      args,
		}
		if call != nil {
			input["user_id"] = call.Identity
		}

		decision, err := engine.Evaluate(ctx, input)
		if err != nil {
			return Result{}, err
		}

		if decision == policy.DecisionAllow {
			return Allow(), nil
		}
		if !enforce {
			log.Printf("INFO: policy decision %q for tool %s not enforced", decision, tool)
			return Allow(), nil
		}
		if decision == policy.DecisionRequireConfirmation {
			return Deny("confirmation required for " + tool), nil
		}
		return Deny("blocked by policy"), nil
	}
}
