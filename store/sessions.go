package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"trendcast/types"
)

// ErrSessionNotFound indicates the session id does not map to a live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side OAuth session records keyed by opaque id.
type SessionStore interface {
	Save(ctx context.Context, session types.Session) error
	Find(ctx context.Context, id string) (types.Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore is the default process-memory implementation. Sessions
// vanish on restart, like every other registry here.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]types.Session

	now func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]types.Session),
		now:      time.Now,
	}
}

// Save stores or overwrites the session record.
func (s *MemorySessionStore) Save(_ context.Context, session types.Session) error {
	if session.ID == "" {
		return errors.New("session id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Find returns the session for the given id. A session whose refresh token
// lifetime has fully elapsed is dropped and reported as not found.
func (s *MemorySessionStore) Find(_ context.Context, id string) (types.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	if s.now().After(session.RefreshExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return types.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes the session if present.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
