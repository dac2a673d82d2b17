// Package store holds the last confirmed session per session-cookie token.
//
// The store is written only by the session service (on bootstrap and logout)
// and read by handlers that want the most recent confirmed identity without
// another backend round trip. It is an explicit dependency injected at
// construction, not a package-level singleton.
package store

import (
	"sync"
	"time"

	"github.com/userhub/dashboard/internal/core/domain"
)

const (
	defaultTTL        = 30 * time.Minute
	defaultMaxEntries = 4096
)

type entry struct {
	session  *domain.Session
	storedAt time.Time
}

// Store is a mutex-guarded map of session token to confirmed session.
// Entries expire after ttl; a full sweep runs whenever the map grows past
// maxEntries, so memory stays bounded without a background goroutine.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New returns an empty store with default TTL and size bounds.
func New() *Store {
	return &Store{
		sessions:   make(map[string]entry),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// Get returns the stored session for token, if present and not expired.
func (s *Store) Get(token string) (*domain.Session, bool) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.storedAt) > s.ttl {
		s.Delete(token)
		return nil, false
	}
	return e.session, true
}

// Put records the session last confirmed for token.
func (s *Store) Put(token string, sess *domain.Session) {
	if token == "" || sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.maxEntries {
		s.sweepLocked()
	}
	s.sessions[token] = entry{session: sess, storedAt: s.now()}
}

// Delete removes the session for token, if any.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for token, e := range s.sessions {
		if e.storedAt.Before(cutoff) {
			delete(s.sessions, token)
		}
	}
}
