package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is the in-process form of one protocol message: a role, the text
// content, and the identifier triple correlating it to a task and a
// conversation.
type Message struct {
	// ID uniquely identifies this message; minted fresh per send.
	ID string

	// Role is "user" or "agent".
	Role string

	// Text is the flattened text content of the message parts.
	Text string

	// TaskID and ContextID correlate the message to a remote task and a
	// conversation. Reused across turns within one session.
	TaskID    string
	ContextID string

	// Timestamp is the RFC 3339 creation time.
	Timestamp string
}

// NewMessage creates a message with a fresh ID and timestamp.
func NewMessage(role, text string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// String returns a short debug representation.
func (m *Message) String() string {
	return fmt.Sprintf("Message{ID:%s, Role:%s, Task:%s, Context:%s}", m.ID, m.Role, m.TaskID, m.ContextID)
}
