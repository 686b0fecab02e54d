package auth

import (
	"context"
	"sync"
)

// NewInMemorySessionStore returns a SessionStore backed by an in-memory map.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{tokens: make(map[string]string)}
}

// InMemorySessionStore implements SessionStore for tests and local
// development. The mutex makes the compare-and-swap in Rotate atomic.
type InMemorySessionStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

// Record overwrites the stored refresh token for the user.
func (s *InMemorySessionStore) Record(_ context.Context, userID, token string) error {
	s.mu.Lock()
	s.tokens[userID] = token
	s.mu.Unlock()
	return nil
}

// Rotate swaps the stored token only when presented matches the current value.
func (s *InMemorySessionStore) Rotate(_ context.Context, userID, presented, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tokens[userID]
	if !ok || current == "" || current != presented {
		return ErrTokenRevoked
	}
	s.tokens[userID] = next
	return nil
}

// Clear removes the stored token. Idempotent.
func (s *InMemorySessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.tokens, userID)
	s.mu.Unlock()
	return nil
}

// Current reports the stored refresh token for a user. Useful for tests.
func (s *InMemorySessionStore) Current(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[userID]
}
