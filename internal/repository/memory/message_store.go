package memory

import (
	"context"
	"sync"

	"msgboard/internal/domain/message"
	board_errors "msgboard/pkg/errors"
)

// MessageStore keeps messages in insertion order.
type MessageStore struct {
	mu       sync.RWMutex
	messages []message.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) Create(_ context.Context, m message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.messages {
		if existing.ID == m.ID {
			return board_errors.ErrAlreadyExists
		}
	}
	s.messages = append(s.messages, m)
	return nil
}

func (s *MessageStore) GetByID(_ context.Context, id string) (message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return message.Message{}, board_errors.ErrNotFound
}

func (s *MessageStore) ListByOwner(_ context.Context, ownerID string) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]message.Message, 0)
	for _, m := range s.messages {
		if m.OwnerID == ownerID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (s *MessageStore) ListAll(_ context.Context) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]message.Message, len(s.messages))
	copy(items, s.messages)
	return items, nil
}

func (s *MessageStore) DeleteOwned(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.messages {
		if m.ID == id && m.OwnerID == ownerID {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return board_errors.ErrNotFound
}
