package hooks

import (
	"context"
	"strings"
)

// SanitizeInput strips whitespace and surrounding quote characters from the
// title and normalizes an empty description to absent. It signals a modify
// only when something actually changed.
func SanitizeInput(ctx context.Context, tool string, args map[string]any, call *CallContext) (Result, error) {
	changed := false
	out := cloneArgs(args)

	if raw, ok := args["title"].(string); ok {
		cleaned := strings.TrimSpace(raw)
		cleaned = strings.Trim(cleaned, `"'`)
		cleaned = strings.TrimSpace(cleaned)
		if cleaned != raw {
			out["title"] = cleaned
			changed = true
		}
	}

	if raw, ok := args["description"].(string); ok {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			delete(out, "description")
			changed = true
		} else if trimmed != raw {
			out["description"] = trimmed
			changed = true
		}
	}

	if !changed {
		return Allow(), nil
	}
	return Modify("sanitized input", out), nil
}
