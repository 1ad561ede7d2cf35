package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"msgboard/internal/domain/session"
	board_errors "msgboard/pkg/errors"

	goredis "github.com/redis/go-redis/v9"
)

// Session keys: session:{id} holding the JSON session, expiring with it.
const sessionKeyPrefix = "session:"

type SessionStore struct {
	client *goredis.Client
	now    func() time.Time
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	ttl := sess.TTL(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save session: %w", board_errors.ErrInvalidInput)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (session.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return session.Session{}, board_errors.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.Expired(s.now()) {
		return session.Session{}, board_errors.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
