// Package session holds in-memory conversation state, one record per user
// identity.  Records are replaced whole: a handler reads the current value,
// computes the next one and puts it back, so a stored session is never seen
// half-updated.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"medrep-bot/pkg"
)

// Store maps user IDs to their conversation sessions.  The surrounding
// transport delivers at most one message per user at a time; the mutex only
// guards the map against interleaved sessions of different users.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]pkg.Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]pkg.Session)}
}

// Get returns the stored session for userID, or a fresh idle one with a new
// record ID when the user has no session yet.
func (s *Store) Get(userID string) pkg.Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	return pkg.Session{
		ID:     uuid.NewString(),
		UserID: userID,
		State:  pkg.StateIdle,
	}
}

// Put replaces the stored session for sess.UserID.
func (s *Store) Put(sess pkg.Session) {
	sess.UpdatedAt = time.Now()
	s.mu.Lock()
	s.sessions[sess.UserID] = sess
	s.mu.Unlock()
}
