package handlers

import (
	"sync"
	"time"

	"spellingbee/internal/practice"
	"spellingbee/internal/security"
)

type registryEntry struct {
	session *practice.Session
	expires time.Time
}

// SessionRegistry maps session IDs to live practice sessions. Every session
// shares the same history store so attempts accumulate across clients.
// Entries expire with their tokens; expired entries are swept on each
// Create, which bounds growth by the live-session count.
type SessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	store   practice.HistoryStore
	newRNG  func() practice.RandomSource
	now     func() time.Time
}

func NewSessionRegistry(store practice.HistoryStore) *SessionRegistry {
	return &SessionRegistry{
		entries: make(map[string]registryEntry),
		store:   store,
		newRNG:  practice.NewRandomSource,
		now:     time.Now,
	}
}

// Create builds a new practice session and returns its ID. The session is
// evicted once ttl elapses, matching its token lifetime.
func (r *SessionRegistry) Create(ttl time.Duration) (string, *practice.Session) {
	id := security.GenerateSessionID()
	session := practice.NewSession(r.store, r.newRNG())

	r.mu.Lock()
	r.sweepLocked()
	r.entries[id] = registryEntry{session: session, expires: r.now().Add(ttl)}
	r.mu.Unlock()

	return id, session
}

// Get returns the session for the given ID if it is registered and has not
// expired.
func (r *SessionRegistry) Get(id string) (*practice.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok || r.now().After(entry.expires) {
		return nil, false
	}
	return entry.session, true
}

func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *SessionRegistry) sweepLocked() {
	now := r.now()
	for id, entry := range r.entries {
		if now.After(entry.expires) {
			delete(r.entries, id)
		}
	}
}
