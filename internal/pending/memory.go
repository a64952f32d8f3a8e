package pending

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-instance Store implementation. Expired entries
// are discarded lazily on the next Pop; the map stays small because every
// user owns at most one slot.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Action
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Action),
		now:     time.Now,
	}
}

// Save replaces any existing entry for key. It never fails.
func (s *MemoryStore) Save(_ context.Context, key string, action Action, ttl time.Duration) error {
	now := s.now()
	action.CreatedAt = now
	action.ExpiresAt = now.Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = action

	return nil
}

// Pop removes the slot for key and returns the action only if it is live.
func (s *MemoryStore) Pop(_ context.Context, key string) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := s.entries[key]
	delete(s.entries, key)

	if !ok || !s.now().Before(action.ExpiresAt) {
		return Action{}, ErrNoPending
	}

	return action, nil
}

// Len reports the number of stored slots, live or expired.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
