package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jac-chandigarh/jacbot/internal/model"
)

// MemoryStore keeps chat histories in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]model.ChatMessage
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]model.ChatMessage),
	}
}

// Create registers a new session with an empty history.
func (s *MemoryStore) Create(_ context.Context) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = []model.ChatMessage{}
	return id, nil
}

// Exists reports whether the session ID is known.
func (s *MemoryStore) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok, nil
}

// History returns a copy of the session's messages.
func (s *MemoryStore) History(_ context.Context, sessionID string) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]model.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

// Append adds messages to the session history.
func (s *MemoryStore) Append(_ context.Context, sessionID string, messages ...model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.sessions[sessionID] = append(history, messages...)
	return nil
}

var _ Store = (*MemoryStore)(nil)
