package hooks

import (
	"context"
	"strings"
)

// RejectDuplicateContent guards create-style tools against a description that
// merely repeats the title. An exact match is denied; a match that differs
// only in case clears the description instead.
func RejectDuplicateContent(ctx context.Context, tool string, args map[string]any, call *CallContext) (Result, error) {
	title, _ := args["title"].(string)
	description, ok := args["description"].(string)
	if !ok || title == "" || description == "" {
		return Allow(), nil
	}

	if description == title {
		return Deny("description must not repeat the title verbatim"), nil
	}
	if strings.EqualFold(description, title) {
		out := cloneArgs(args)
		delete(out, "description")
		return Modify("cleared description duplicating the title", out), nil
	}
	return Allow(), nil
}
