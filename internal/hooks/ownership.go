package hooks

import (
	"context"
	"fmt"
)

// EnforceOwnership requires every tool call to carry a user identity. When
// the call context has an authenticated identity, it must match the argument
// identity. Without an authenticated identity the check is deferred
// downstream rather than failing closed.
func EnforceOwnership(ctx context.Context, tool string, args map[string]any, call *CallContext) (Result, error) {
	userID, _ := args["user_id"].(string)
	if userID == "" {
		return Deny("user_id is required"), nil
	}

	if call != nil && call.Identity != "" && call.Identity != userID {
		return Deny(fmt.Sprintf("user_id %q does not match the authenticated identity", userID)), nil
	}
	return Allow(), nil
}
