package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamhost-dev/jamhost/internal/agent"
)

// echoAgent answers every message with a canned reply.
type echoAgent struct {
	name string
	err  error
}

func (e *echoAgent) Name() string        { return e.name }
func (e *echoAgent) Description() string { return "test agent" }

func (e *echoAgent) Execute(_ context.Context, input *agent.Message) (*agent.Message, error) {
	if e.err != nil {
		return nil, e.err
	}
	return agent.NewMessage("agent", "echo: "+input.Text), nil
}

func newTestServer(t *testing.T, a agent.Agent) (*httptest.Server, AgentCard) {
	t.Helper()
	card := AgentCard{
		Name:        a.Name(),
		Description: a.Description(),
		Version:     "1.0.0",
	}
	srv := httptest.NewServer(NewHandler(a, card))
	t.Cleanup(srv.Close)
	card.URL = srv.URL
	return srv, card
}

func TestResolveCard(t *testing.T) {
	srv, _ := newTestServer(t, &echoAgent{name: "Cartola Agent"})

	card, err := ResolveCard(context.Background(), nil, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Cartola Agent", card.Name)
	assert.Equal(t, "test agent", card.Description)
}

func TestResolveCardUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := ResolveCard(context.Background(), nil, srv.URL)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestResolveCardMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	_, err := ResolveCard(context.Background(), nil, srv.URL)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestSendMessageRoundTrip(t *testing.T) {
	_, card := newTestServer(t, &echoAgent{name: "Dilermano Agent"})

	client := NewClient(card, WithRateLimit(100, 10))
	msg := TextMessage("are you free on 2024-08-01?", "msg-1", "task-1", "ctx-1")

	task, err := client.SendMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, TaskStateCompleted, task.Status.State)
	assert.Equal(t, "echo: are you free on 2024-08-01?", task.Text())
}

func TestSendMessageAgentFailure(t *testing.T) {
	_, card := newTestServer(t, &echoAgent{name: "Broken Agent", err: fmt.Errorf("calendar offline")})

	client := NewClient(card)
	_, err := client.SendMessage(context.Background(), TextMessage("hi", "msg-1", "", ""))
	require.ErrorIs(t, err, ErrProtocol)
	assert.Contains(t, err.Error(), "calendar offline")
}

func TestSendMessageFailedTaskState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := json.Marshal(Task{ID: "task-1", Status: TaskStatus{State: TaskStateFailed}})
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(SendMessageResponse{JSONRPC: "2.0", ID: "msg-1", Result: result})
	}))
	defer srv.Close()

	client := NewClient(AgentCard{Name: "Flaky Agent", URL: srv.URL})
	_, err := client.SendMessage(context.Background(), TextMessage("hi", "msg-1", "", ""))
	require.ErrorIs(t, err, ErrProtocol)
	assert.Contains(t, err.Error(), TaskStateFailed)
}

func TestSendMessageUnreachable(t *testing.T) {
	srv, card := newTestServer(t, &echoAgent{name: "Gone Agent"})
	srv.Close()

	client := NewClient(card)
	_, err := client.SendMessage(context.Background(), TextMessage("hi", "msg-1", "", ""))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestSendMessageMintsTaskID(t *testing.T) {
	_, card := newTestServer(t, &echoAgent{name: "Fresh Agent"})

	client := NewClient(card)
	task, err := client.SendMessage(context.Background(), TextMessage("hi", "msg-1", "", "ctx-9"))
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID, "server mints a task ID when the message carries none")
	assert.Equal(t, "ctx-9", task.ContextID)
}

func TestTaskTextFlattensArtifacts(t *testing.T) {
	task := &Task{Artifacts: []Artifact{
		{Parts: []Part{{Type: "text", Text: "first"}, {Type: "text", Text: "second"}}},
		{Parts: []Part{{Type: "text", Text: "third"}}},
	}}
	assert.Equal(t, "first\nsecond\nthird", task.Text())
}
