// Package host implements the coordinator agent: it plans jam sessions with
// an LLM tool loop, queries remote friend agents for availability, and books
// the jam spot once a common time is confirmed.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jamhost-dev/jamhost/internal/a2a"
	"github.com/jamhost-dev/jamhost/internal/agent"
	"github.com/jamhost-dev/jamhost/internal/directory"
	"github.com/jamhost-dev/jamhost/internal/observability"
	"github.com/jamhost-dev/jamhost/internal/schedule"
	"github.com/jamhost-dev/jamhost/internal/session"
	obs "github.com/jamhost-dev/jamhost/pkg/observability"
)

// maxToolRounds caps the planner loop so a misbehaving model cannot spin
// forever calling tools.
const maxToolRounds = 8

const (
	defaultModel           = "gpt-4o-mini"
	defaultThinkingMessage = "The host agent is thinking..."
	defaultRemoteTimeout   = 30 * time.Second
)

// OpenAIClient interface for testability
type OpenAIClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Host coordinates jam-session scheduling across remote friend agents and
// the local jam-spot calendar.
type Host struct {
	name          string
	cal           *schedule.Calendar
	dir           *directory.Directory
	sessions      session.Store
	client        OpenAIClient
	model         string
	thinking      string
	remoteTimeout time.Duration
	now           func() time.Time
}

// Option configures a Host.
type Option func(*Host)

// WithModel overrides the planner model.
func WithModel(model string) Option {
	return func(h *Host) { h.model = model }
}

// WithThinkingMessage overrides the interim update text.
func WithThinkingMessage(msg string) Option {
	return func(h *Host) { h.thinking = msg }
}

// WithRemoteTimeout bounds each friend agent round trip.
func WithRemoteTimeout(d time.Duration) Option {
	return func(h *Host) { h.remoteTimeout = d }
}

// WithClock overrides the time source used in the planner prompt.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// New creates a Host wired to a calendar, a friend directory, a session
// store, and an LLM client.
func New(name string, cal *schedule.Calendar, dir *directory.Directory, sessions session.Store, client OpenAIClient, opts ...Option) *Host {
	h := &Host{
		name:          name,
		cal:           cal,
		dir:           dir,
		sessions:      sessions,
		client:        client,
		model:         defaultModel,
		thinking:      defaultThinkingMessage,
		remoteTimeout: defaultRemoteTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the host agent's name.
func (h *Host) Name() string { return h.name }

// Description describes the host for its published card.
func (h *Host) Description() string {
	return "This Host agent orchestrates scheduling jam sessions with friends."
}

// Execute runs one full turn and returns only the final answer. It adapts
// the streaming turn loop to the request/response agent interface so the
// host itself can be served over the wire.
func (h *Host) Execute(ctx context.Context, in *agent.Message) (*agent.Message, error) {
	sessionID := in.ContextID
	if sessionID == "" {
		sessionID = in.ID
	}

	var final string
	var answered bool
	for e := range h.Stream(ctx, in.Text, sessionID) {
		if e.Kind == EventFinal {
			final = e.Text
			answered = true
		}
	}
	if !answered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("turn produced no answer")
	}

	out := agent.NewMessage("agent", final)
	out.TaskID = in.TaskID
	out.ContextID = in.ContextID
	return out, nil
}

// Stream runs one turn for the given query and session, streaming interim
// thinking updates followed by exactly one final event. The channel is
// closed when the turn completes; cancelling ctx closes it without a final
// event.
func (h *Host) Stream(ctx context.Context, query, sessionID string) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		h.runTurn(ctx, query, sessionID, events)
	}()
	return events
}

func (h *Host) runTurn(ctx context.Context, query, sessionID string, events chan<- Event) {
	ctx, span := observability.StartSpan(ctx, "host.turn",
		attribute.String("session.id", sessionID),
	)
	defer span.End()

	sess, err := h.sessions.Resolve(ctx, sessionID)
	if err != nil {
		obs.RecordTurn("error")
		span.RecordError(err)
		h.emit(ctx, events, Event{Kind: EventFinal, Text: "Sorry, I could not restore this conversation. Please try again."})
		return
	}

	state := StateAwaitingQuery
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: rootInstruction(h.now(), h.dir.Summary())},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}
	tools := hostTools()

	for round := 0; round < maxToolRounds; round++ {
		resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    h.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			if ctx.Err() != nil {
				obs.RecordTurn("cancelled")
				return
			}
			obs.RecordTurn("error")
			span.RecordError(err)
			log.Printf("planner error: %v", err)
			h.emit(ctx, events, Event{Kind: EventFinal, Text: "Sorry, something went wrong while planning. Please try again."})
			return
		}
		if len(resp.Choices) == 0 {
			obs.RecordTurn("error")
			h.emit(ctx, events, Event{Kind: EventFinal, Text: "Sorry, the planner returned an empty response."})
			return
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			state = state.advance(StateResponding)
			span.SetAttributes(
				attribute.String("turn.state", state.String()),
				attribute.Int("turn.rounds", round),
			)
			sess.Turns++
			if err := h.sessions.Save(ctx, sess); err != nil {
				log.Printf("failed to save session %s: %v", sess.ID, err)
			}
			obs.RecordTurn("ok")
			h.emit(ctx, events, Event{Kind: EventFinal, Text: msg.Content})
			return
		}

		if !h.emit(ctx, events, Event{Kind: EventThinking, Text: h.thinking}) {
			obs.RecordTurn("cancelled")
			return
		}

		state = nextState(state, msg.ToolCalls)
		span.SetAttributes(attribute.String("turn.state", state.String()))

		messages = append(messages, msg)
		results := h.executeToolCalls(ctx, sess, msg.ToolCalls)
		for i, call := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    results[i],
			})
		}
	}

	obs.RecordTurn("overrun")
	h.emit(ctx, events, Event{Kind: EventFinal, Text: "I could not finish planning within a reasonable number of steps. Please try a simpler request."})
}

// emit delivers an event unless ctx is done. Reports whether delivery
// happened. Cancellation wins over delivery so an already-cancelled turn
// never emits.
func (h *Host) emit(ctx context.Context, events chan<- Event, e Event) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// nextState classifies the turn by the tools the planner just requested.
func nextState(state TurnState, calls []openai.ToolCall) TurnState {
	for _, call := range calls {
		switch call.Function.Name {
		case toolSendMessage:
			state = state.advance(StateDispatching)
		case toolFindCommonTimes:
			state = state.advance(StateAggregating)
		case toolListAvailabilities, toolBookJamSession:
			state = state.advance(StateProposingOrBooking)
		}
	}
	return state
}

// executeToolCalls runs all requested tools concurrently and returns one
// result per call, index-aligned. Tool failures are encoded into the result
// payload rather than aborting the turn.
func (h *Host) executeToolCalls(ctx context.Context, sess *session.Session, calls []openai.ToolCall) []string {
	results := make([]string, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = h.executeTool(ctx, sess, call.Function.Name, json.RawMessage(call.Function.Arguments))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (h *Host) executeTool(ctx context.Context, sess *session.Session, name string, args json.RawMessage) string {
	ctx, span := observability.StartSpan(ctx, "host.tool",
		attribute.String("tool.name", name),
	)
	defer span.End()

	switch name {
	case toolSendMessage:
		return h.sendMessage(ctx, sess, args)
	case toolListAvailabilities:
		return h.listAvailabilities(args)
	case toolBookJamSession:
		return h.bookJamSession(args)
	case toolFindCommonTimes:
		return h.findCommonTimes(args)
	default:
		return toolError(fmt.Sprintf("unknown tool: %s", name))
	}
}

// sendMessage delivers a task to one friend agent. The session's task and
// context identifiers are reused so multi-turn exchanges stay linked; the
// message ID is always minted fresh.
func (h *Host) sendMessage(ctx context.Context, sess *session.Session, args json.RawMessage) string {
	var in struct {
		AgentName string `json:"agent_name"`
		Task      string `json:"task"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return toolError("Invalid arguments for send_message.")
	}

	client, ok := h.dir.Lookup(in.AgentName)
	if !ok {
		return toolError(fmt.Sprintf("Agent %s not found", in.AgentName))
	}

	msg := a2a.TextMessage(in.Task, uuid.New().String(), sess.TaskID, sess.ContextID)

	callCtx, cancel := context.WithTimeout(ctx, h.remoteTimeout)
	defer cancel()

	start := time.Now()
	task, err := client.SendMessage(callCtx, msg)
	if err != nil {
		obs.RecordRemoteRequest(in.AgentName, "error", time.Since(start))
		log.Printf("send_message to %s failed: %v", in.AgentName, err)
		return toolError(fmt.Sprintf("no answer from %s", in.AgentName))
	}
	obs.RecordRemoteRequest(in.AgentName, "ok", time.Since(start))

	return toolResult(map[string]any{
		"status":   "success",
		"response": task.Text(),
	})
}
