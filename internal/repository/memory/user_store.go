package memory

import (
	"context"
	"sync"

	"msgboard/internal/domain/user"
	board_errors "msgboard/pkg/errors"
)

type UserStore struct {
	mu         sync.RWMutex
	byID       map[string]user.User
	byUsername map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[string]user.User),
		byUsername: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[u.Username]; ok {
		return board_errors.ErrAlreadyExists
	}
	if _, ok := s.byID[u.ID]; ok {
		return board_errors.ErrAlreadyExists
	}
	s.byID[u.ID] = u
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return user.User{}, board_errors.ErrNotFound
	}
	return s.byID[id], nil
}
