// Package session tracks conversation state across turns: the stable task
// and context identifiers the remote protocol expects the host to reuse
// within one exchange. Sessions are created lazily on first turn and never
// explicitly destroyed by the core.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStoreClosed is returned when operating on a closed store.
var ErrStoreClosed = errors.New("session store is closed")

// Session correlates a sequence of turns. TaskID and ContextID are minted
// once at creation and reused for every remote message in the session;
// message IDs are always minted fresh per send.
type Session struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	ContextID string    `json:"contextId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Turns     int       `json:"turns"`
}

// Store abstracts session persistence. Implementations must be safe for
// concurrent use.
type Store interface {
	// Resolve returns the session for id, creating it if absent.
	Resolve(ctx context.Context, id string) (*Session, error)

	// Save persists updated session state.
	Save(ctx context.Context, s *Session) error

	// Close releases any resources held by the store.
	Close() error
}

func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		TaskID:    uuid.New().String(),
		ContextID: uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
