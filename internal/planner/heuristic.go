package planner

import (
	"context"
	"log"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/taskpilot/taskpilot/internal/store"
)

// heuristicPlan builds a plan from keyword matching alone, used when the LLM
// backend is disabled or exhausted its retries. Anything it cannot map to a
// tool becomes a conversational goal (empty step list).
func (p *Planner) heuristicPlan(ctx context.Context, goal, identity string) Plan {
	lower := strings.ToLower(goal)

	switch {
	case containsAny(lower, "delete", "remove"):
		if taskID, title := p.matchTask(ctx, lower, identity); taskID != "" {
			// delete_task demands a confirmation; the planner never supplies
			// one on the user's behalf, so dispatch will surface the demand.
			return Plan{Steps: []Step{{
				Tool:                 "delete_task",
				Args:                 map[string]any{"task_id": taskID},
				Summary:              "Delete task " + quoteTitle(title),
				ConfirmationRequired: true,
			}}}
		}
	case containsAny(lower, "complete", "finish", "done with"):
		if taskID, title := p.matchTask(ctx, lower, identity); taskID != "" {
			return Plan{Steps: []Step{{
				Tool:    "complete_task",
				Args:    map[string]any{"task_id": taskID},
				Summary: "Complete task " + quoteTitle(title),
			}}}
		}
	case containsAny(lower, "create", "add task", "new task"):
		if title := extractTitle(lower); title != "" {
			return Plan{Steps: []Step{{
				Tool:    "create_task",
				Args:    map[string]any{"title": title},
				Summary: "Create task " + quoteTitle(title),
			}}}
		}
	case containsAny(lower, "list", "show", "what are my"):
		return Plan{Steps: []Step{{
			Tool:    "list_tasks",
			Args:    map[string]any{},
			Summary: "List tasks",
		}}}
	}

	return Plan{}
}

// matchTask fuzzy-matches the (lowercased) goal text against the caller's
// task titles and returns the best hit.
func (p *Planner) matchTask(ctx context.Context, goal, identity string) (string, string) {
	tasks, err := p.store.ListTasks(ctx, identity, store.TaskFilter{})
	if err != nil {
		log.Printf("WARN: failed to list tasks for heuristic match: %v", err)
		return "", ""
	}
	if len(tasks) == 0 {
		return "", ""
	}

	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}

	// Match word by word: the goal carries verb phrases and filler the titles
	// never contain, so the full text is useless as a fuzzy pattern.
	bestIdx, bestScore := -1, 0
	for _, word := range strings.Fields(strippedGoal(goal)) {
		if len(word) < 3 {
			continue
		}
		matches := fuzzy.Find(word, titles)
		if len(matches) > 0 && (bestIdx == -1 || matches[0].Score > bestScore) {
			bestIdx, bestScore = matches[0].Index, matches[0].Score
		}
	}
	if bestIdx == -1 {
		return "", ""
	}
	best := tasks[bestIdx]
	return best.TaskID, best.Title
}

// strippedGoal drops the leading verb phrase so fuzzy matching sees mostly
// the task reference. The goal must already be lowercased: index and slice
// have to come from the same string, since case mapping can change byte
// lengths.
func strippedGoal(goal string) string {
	for _, prefix := range []string{"delete", "remove", "complete", "finish", "done with", "mark"} {
		if idx := strings.Index(goal, prefix); idx >= 0 {
			rest := strings.TrimSpace(goal[idx+len(prefix):])
			rest = strings.TrimPrefix(rest, "the task ")
			rest = strings.TrimPrefix(rest, "task ")
			if rest != "" {
				return rest
			}
		}
	}
	return goal
}

// extractTitle pulls the task title out of a create-style goal. Like
// strippedGoal, it expects an already-lowercased goal.
func extractTitle(goal string) string {
	for _, prefix := range []string{"create a task to ", "create task ", "add a task to ", "add task ", "new task ", "create ", "add "} {
		if idx := strings.Index(goal, prefix); idx >= 0 {
			title := strings.TrimSpace(goal[idx+len(prefix):])
			title = strings.Trim(title, `"'.`)
			if title != "" {
				return title
			}
		}
	}
	return ""
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func quoteTitle(title string) string {
	return `"` + title + `"`
}
