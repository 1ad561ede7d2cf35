package memory

import (
	"context"
	"sync"
	"time"

	"msgboard/internal/domain/session"
	board_errors "msgboard/pkg/errors"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

// Get returns ErrNotFound for unknown and expired sessions alike.
func (s *SessionStore) Get(_ context.Context, id string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return session.Session{}, board_errors.ErrNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return session.Session{}, board_errors.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
