// Package a2a is a thin typed client and server for the HTTP agent-to-agent
// protocol: descriptor cards served at a well-known path and a JSON-RPC
// style message/send operation whose result carries a task with artifacts.
//
// Only the two operations the host depends on are implemented — fetching a
// friend's card and sending a task message — the full protocol schema is an
// external collaborator interface.
package a2a

import (
	"encoding/json"
	"errors"
	"strings"
)

// WellKnownPath is where an agent publishes its descriptor card.
const WellKnownPath = "/.well-known/agent.json"

// Method names accepted by the message endpoint.
const MethodSendMessage = "message/send"

// Task states carried in response envelopes.
const (
	TaskStateCompleted = "completed"
	TaskStateFailed    = "failed"
)

var (
	// ErrUnreachable indicates a transport-level failure: connection
	// refused, timeout, or a non-2xx status.
	ErrUnreachable = errors.New("remote agent unreachable")

	// ErrProtocol indicates a malformed or unsuccessful remote response.
	ErrProtocol = errors.New("remote protocol error")
)

// AgentCard is the descriptor an agent publishes: who it is and where to
// reach it.
type AgentCard struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Version     string       `json:"version"`
	Capabilities Capabilities `json:"capabilities"`
	Skills      []Skill      `json:"skills,omitempty"`
}

// Capabilities advertises optional protocol features.
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// Skill describes one thing an agent can do.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Part is one piece of message or artifact content.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is the wire form of one protocol message.
type Message struct {
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	MessageID string `json:"messageId"`
	TaskID    string `json:"taskId,omitempty"`
	ContextID string `json:"contextId,omitempty"`
}

// TextMessage builds a single-part user message with the given identifiers.
func TextMessage(text, messageID, taskID, contextID string) Message {
	return Message{
		Role:      "user",
		Parts:     []Part{{Type: "text", Text: text}},
		MessageID: messageID,
		TaskID:    taskID,
		ContextID: contextID,
	}
}

// Artifact is one output produced while completing a task.
type Artifact struct {
	Name  string `json:"name,omitempty"`
	Parts []Part `json:"parts"`
}

// TaskStatus reports where a task is in its lifecycle.
type TaskStatus struct {
	State string `json:"state"`
}

// Task is a successful result: the work item the remote agent completed in
// response to a message.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId,omitempty"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Text flattens all artifact text parts into one newline-joined string.
func (t *Task) Text() string {
	var parts []string
	for _, a := range t.Artifacts {
		for _, p := range a.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// SendMessageRequest is the request envelope for message/send.
type SendMessageRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      string            `json:"id"`
	Method  string            `json:"method"`
	Params  MessageSendParams `json:"params"`
}

// MessageSendParams carries the message being sent.
type MessageSendParams struct {
	Message Message `json:"message"`
}

// RPCError is the failure half of a response envelope.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendMessageResponse is the response envelope: exactly one of Result or
// Error is set.
type SendMessageResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}
