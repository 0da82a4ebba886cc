package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-local map. This is the default
// backend; state lives only as long as the process.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Resolve returns the session for id, creating it lazily.
func (m *MemoryStore) Resolve(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}

	s := newSession(id)
	m.sessions[id] = s
	copied := *s
	return &copied, nil
}

// Save persists updated session state.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
