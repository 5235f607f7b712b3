package revocation

import (
	"context"
	"sync"
	"time"
)

const gcThreshold = 1000

// MemoryStore is a process-local revocation set. Entries are lost on restart
// and are not shared between instances.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]time.Time{},
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, exists := s.entries[token]; exists && !current.Before(expiresAt) {
		return nil
	}
	s.entries[token] = expiresAt
	s.gcLocked()

	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	_, exists := s.entries[token]
	s.mu.RUnlock()

	return exists, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// gcLocked drops entries whose token has already expired on its own.
func (s *MemoryStore) gcLocked() {
	if len(s.entries) < gcThreshold {
		return
	}

	now := s.now()
	for token, expiresAt := range s.entries {
		if !expiresAt.IsZero() && expiresAt.Before(now) {
			delete(s.entries, token)
		}
	}
}
