// Package history provides the in-memory attempt-history store used when no
// database is configured.
package history

import (
	"sync"

	"spellingbee/internal/models"
)

// MemoryStore keeps practice attempts in process memory with the same cap
// and eviction behavior as the database-backed repository.
type MemoryStore struct {
	mu       sync.Mutex
	attempts []models.PracticeAttempt
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored attempts, oldest first.
func (s *MemoryStore) Load() []models.PracticeAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Append stores an attempt, evicting the oldest entries beyond the cap, and
// returns the new canonical list.
func (s *MemoryStore) Append(attempt models.PracticeAttempt) []models.PracticeAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, attempt)
	if len(s.attempts) > models.MaxHistoryEntries {
		s.attempts = s.attempts[len(s.attempts)-models.MaxHistoryEntries:]
	}
	return s.snapshot()
}

func (s *MemoryStore) snapshot() []models.PracticeAttempt {
	attempts := make([]models.PracticeAttempt, len(s.attempts))
	copy(attempts, s.attempts)
	return attempts
}
