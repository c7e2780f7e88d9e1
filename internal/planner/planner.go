package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/dispatch"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/llm"
	"github.com/taskpilot/taskpilot/internal/store"
)

const (
	planAttempts  = 3
	planMaxSteps  = 3
	retryBaseWait = 250 * time.Millisecond
)

const fallbackMessage = "I could not reach the language model right now. " +
	"You can still manage tasks directly, or try again in a moment."

// Config holds planner budgets, fixed at construction.
type Config struct {
	MaxSteps   int
	Model      string
	DisableLLM bool
}

// Planner executes natural-language goals against the tool dispatcher and
// streams typed events.
type Planner struct {
	dispatcher *dispatch.Dispatcher
	llm        llm.Client
	store      store.Store
	cfg        Config
}

// New creates a planner.
func New(dispatcher *dispatch.Dispatcher, llmClient llm.Client, st store.Store, cfg Config) *Planner {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 5
	}
	return &Planner{dispatcher: dispatcher, llm: llmClient, store: st, cfg: cfg}
}

// Run starts a planning run and returns its event stream. The channel is
// unbuffered: the run yields to the caller between every event, so a
// transport can flush each one before the next is produced. The channel is
// closed when the run terminates.
func (p *Planner) Run(ctx context.Context, req RunRequest) <-chan Event {
	ch := make(chan Event)
	go p.run(ctx, req, ch)
	return ch
}

func (p *Planner) run(ctx context.Context, req RunRequest, ch chan<- Event) {
	defer close(ch)

	traceID := req.TraceID
	if traceID == "" {
		traceID = "run_" + uuid.New().String()[:8]
	}

	run := &domain.Run{
		RunID:     traceID,
		UserID:    req.Identity,
		Goal:      req.Goal,
		Status:    domain.RunStatusCreated,
		StartedAt: time.Now(),
	}
	if err := p.store.CreateRun(ctx, run); err != nil {
		log.Printf("ERROR: failed to create run: %v", err)
	}
	if err := p.store.UpdateRunStatus(ctx, traceID, domain.RunStatusRunning); err != nil {
		log.Printf("ERROR: failed to update run status: %v", err)
	}

	// First event goes out before any network call so the caller sees
	// activity immediately.
	if !p.emit(ctx, ch, traceID, domain.EventTypeThinking, map[string]any{"message": "Working on it..."}) {
		p.finishRun(ctx, traceID, domain.RunStatusFailed, []byte(`{"error":"caller gone"}`))
		return
	}

	plan := p.buildPlan(ctx, req)

	if len(plan.Steps) == 0 {
		// A planning note means the planner already has the answer; only a
		// silent empty plan falls through to the conversational path.
		if plan.Message != "" {
			p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": plan.Message})
		} else {
			p.conversational(ctx, ch, traceID, req)
		}
		p.emit(ctx, ch, traceID, domain.EventTypeDone, map[string]any{})
		p.finishRun(ctx, traceID, domain.RunStatusDone, nil)
		return
	}

	if len(plan.Steps) > p.cfg.MaxSteps {
		plan.Steps = plan.Steps[:p.cfg.MaxSteps]
	}

	if plan.Message != "" {
		if !p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": plan.Message}) {
			p.finishRun(ctx, traceID, domain.RunStatusFailed, []byte(`{"error":"caller gone"}`))
			return
		}
	}

	summaries, ok := p.executePlan(ctx, ch, traceID, req, plan)
	if !ok {
		p.finishRun(ctx, traceID, domain.RunStatusFailed, []byte(`{"error":"plan aborted"}`))
		return
	}

	if len(summaries) > 0 {
		p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{
			"message": p.composeSummary(ctx, req.Goal, summaries),
		})
	}
	p.emit(ctx, ch, traceID, domain.EventTypeDone, map[string]any{})
	p.finishRun(ctx, traceID, domain.RunStatusDone, nil)
}

// executePlan runs the steps strictly in order. A dispatcher error aborts the
// remaining plan; already-emitted results stand.
func (p *Planner) executePlan(ctx context.Context, ch chan<- Event, traceID string, req RunRequest, plan Plan) ([]string, bool) {
	var summaries []string

	for i, step := range plan.Steps {
		if step.Args == nil {
			step.Args = map[string]any{}
		}
		if _, ok := step.Args["user_id"]; !ok {
			step.Args["user_id"] = req.Identity
		}

		if !p.emit(ctx, ch, traceID, domain.EventTypeStep, map[string]any{
			"index":   i,
			"summary": step.Summary,
		}) {
			return summaries, false
		}
		if !p.emit(ctx, ch, traceID, domain.EventTypeToolRequest, map[string]any{
			"tool":                  step.Tool,
			"args":                  step.Args,
			"confirmation_required": step.ConfirmationRequired,
		}) {
			return summaries, false
		}

		if req.DryRun {
			if !p.emit(ctx, ch, traceID, domain.EventTypeToolResult, map[string]any{
				"tool":    step.Tool,
				"dry_run": true,
				"result":  map[string]any{"summary": step.Summary},
			}) {
				return summaries, false
			}
			summaries = append(summaries, step.Summary)
			continue
		}

		result, err := p.dispatcher.Dispatch(ctx, step.Tool, step.Args, req.Identity, traceID, nil)
		if err != nil {
			// The stream cannot pause for a prompt. Hand the caller what it
			// needs to confirm and re-invoke out of band.
			var confirm *dispatch.ConfirmationRequiredError
			if errors.As(err, &confirm) {
				log.Printf("INFO: trace=%s tool %s awaits confirmation", traceID, confirm.Tool)
				p.emit(ctx, ch, traceID, domain.EventTypeError, map[string]any{
					"tool":  confirm.Tool,
					"error": "confirmation_required",
					"args":  confirm.Args,
					"hint":  "re-invoke POST /v1/tools/" + confirm.Tool + "/execute with confirm set",
				})
				return summaries, false
			}
			p.emit(ctx, ch, traceID, domain.EventTypeError, map[string]any{
				"tool":  step.Tool,
				"error": err.Error(),
			})
			return summaries, false
		}

		if !p.emit(ctx, ch, traceID, domain.EventTypeToolResult, map[string]any{
			"tool":   step.Tool,
			"result": result,
		}) {
			return summaries, false
		}

		if summary, ok := result["summary"].(string); ok && summary != "" {
			summaries = append(summaries, summary)
			if !p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": summary}) {
				return summaries, false
			}
		}
	}
	return summaries, true
}

var errMalformedPlan = errors.New("malformed plan")

// buildPlan selects a planning strategy: the LLM with bounded retries for
// transient failures, then the keyword heuristic.
func (p *Planner) buildPlan(ctx context.Context, req RunRequest) Plan {
	if p.cfg.DisableLLM || !p.llm.HealthCheck(ctx) {
		return p.heuristicPlan(ctx, req.Goal, req.Identity)
	}

	for attempt := 0; attempt < planAttempts; attempt++ {
		plan, err := p.llmPlan(ctx, req.Goal)
		if err == nil {
			return plan
		}
		if !llm.IsTransient(err) {
			log.Printf("WARN: trace=%s LLM planning failed (%v), falling back to heuristic", req.TraceID, err)
			break
		}
		log.Printf("WARN: trace=%s transient LLM planning failure (attempt %d): %v", req.TraceID, attempt+1, err)
		select {
		case <-ctx.Done():
			return Plan{}
		case <-time.After(retryBaseWait << attempt):
		}
	}
	return p.heuristicPlan(ctx, req.Goal, req.Identity)
}

func (p *Planner) llmPlan(ctx context.Context, goal string) (Plan, error) {
	messages := []llm.ChatMessage{
		{Role: "system", Content: p.planningPrompt()},
		{Role: "user", Content: goal},
	}

	text, err := p.llm.Complete(ctx, messages, llm.Options{Model: p.cfg.Model, JSONMode: true})
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &plan); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", errMalformedPlan, err)
	}
	if len(plan.Steps) > planMaxSteps {
		plan.Steps = plan.Steps[:planMaxSteps]
	}

	registry := p.dispatcher.Registry()
	for i := range plan.Steps {
		descriptor, ok := registry.Lookup(plan.Steps[i].Tool)
		if !ok {
			return Plan{}, fmt.Errorf("%w: unknown tool %q", errMalformedPlan, plan.Steps[i].Tool)
		}
		plan.Steps[i].ConfirmationRequired = descriptor.RequiresConfirmation
		if plan.Steps[i].Args == nil {
			plan.Steps[i].Args = map[string]any{}
		}
	}
	return plan, nil
}

func (p *Planner) planningPrompt() string {
	var b strings.Builder
	b.WriteString("You plan task-management operations. Respond with a JSON object ")
	b.WriteString(`{"steps": [{"tool": "...", "args": {...}, "summary": "..."}], "message": "..."}. `)
	b.WriteString("Use at most 3 steps. Do not include user_id in args. ")
	b.WriteString("If the request needs no tool, return an empty steps array.\n\nAvailable tools:\n")
	for _, d := range p.dispatcher.Registry().All() {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)
		if len(d.Examples) > 0 {
			example, _ := json.Marshal(d.Examples[0])
			fmt.Fprintf(&b, "  example args: %s\n", example)
		}
	}
	return b.String()
}

// conversational streams an LLM reply for goals that need no tool call.
// Reasoning tokens become thinking events; answer tokens accumulate into the
// final message. Any failure degrades to a static fallback.
func (p *Planner) conversational(ctx context.Context, ch chan<- Event, traceID string, req RunRequest) {
	if p.cfg.DisableLLM || !p.llm.HealthCheck(ctx) {
		p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": fallbackMessage})
		return
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: "You are a concise task-management assistant."},
		{Role: "user", Content: req.Goal},
	}

	var answer strings.Builder
	err := p.llm.CompleteStream(ctx, messages, llm.Options{Model: p.cfg.Model}, func(delta llm.StreamDelta) error {
		if delta.ThinkingDelta != "" {
			if !p.emit(ctx, ch, traceID, domain.EventTypeThinking, map[string]any{"delta": delta.ThinkingDelta}) {
				return ctx.Err()
			}
		}
		answer.WriteString(delta.ContentDelta)
		return nil
	})
	if err != nil || answer.Len() == 0 {
		if err != nil {
			log.Printf("WARN: trace=%s conversational stream failed: %v", traceID, err)
		}
		p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": fallbackMessage})
		return
	}
	p.emit(ctx, ch, traceID, domain.EventTypeMessage, map[string]any{"message": answer.String()})
}

// composeSummary asks the LLM for a concise wrap-up of the step summaries,
// falling back to deterministic concatenation.
func (p *Planner) composeSummary(ctx context.Context, goal string, summaries []string) string {
	joined := strings.Join(summaries, "; ")
	if p.cfg.DisableLLM || !p.llm.HealthCheck(ctx) {
		return joined
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: "Summarize the completed actions in one short sentence."},
		{Role: "user", Content: fmt.Sprintf("Goal: %s\nActions: %s", goal, joined)},
	}
	text, err := p.llm.Complete(ctx, messages, llm.Options{Model: p.cfg.Model})
	if err != nil || strings.TrimSpace(text) == "" {
		return joined
	}
	return strings.TrimSpace(text)
}

// emit records the event for replay and sends it to the caller. Returns false
// when the caller is gone.
func (p *Planner) emit(ctx context.Context, ch chan<- Event, traceID string, eventType domain.EventType, data map[string]any) bool {
	if data == nil {
		data = map[string]any{}
	}
	data["trace_id"] = traceID

	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("ERROR: failed to marshal event payload: %v", err)
		payload = nil
	}
	if err := p.store.CreateEvent(ctx, &domain.Event{
		EventID: "evt_" + uuid.New().String()[:8],
		RunID:   traceID,
		Ts:      time.Now().UnixMilli(),
		Type:    eventType,
		Payload: payload,
	}); err != nil {
		log.Printf("ERROR: failed to record %s event: %v", eventType, err)
	}

	select {
	case ch <- Event{Type: eventType, Data: data}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Planner) finishRun(ctx context.Context, traceID string, status domain.RunStatus, errPayload []byte) {
	// Run completion must be recorded even when the caller went away.
	ctx = context.WithoutCancel(ctx)
	if err := p.store.UpdateRunCompleted(ctx, traceID, status, errPayload); err != nil {
		log.Printf("ERROR: failed to complete run %s: %v", traceID, err)
	}
}
