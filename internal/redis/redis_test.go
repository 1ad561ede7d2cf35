package redis

import (
	"context"
	"testing"
	"time"

	"msgboard/internal/domain/session"
	board_errors "msgboard/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_RoundTrip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewSessionStore(client)

	sess := session.New("user-1", "alice", time.Now(), time.Hour)
	req.NoError(store.Save(ctx, sess))
	req.True(mr.Exists(sessionKeyPrefix + sess.ID))
	req.Greater(mr.TTL(sessionKeyPrefix+sess.ID), 59*time.Minute)

	got, err := store.Get(ctx, sess.ID)
	req.NoError(err)
	req.Equal(sess.ID, got.ID)
	req.Equal("user-1", got.UserID)
	req.Equal("alice", got.Username)
	req.True(sess.ExpiresAt.Equal(got.ExpiresAt))

	req.NoError(store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	req.ErrorIs(err, board_errors.ErrNotFound)
}

func TestSessionStore_ExpiredSessionIsRejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewSessionStore(client)

	expired := session.New("user-1", "alice", time.Now().Add(-2*time.Hour), time.Hour)
	req.ErrorIs(store.Save(ctx, expired), board_errors.ErrInvalidInput)

	sess := session.New("user-1", "alice", time.Now(), time.Minute)
	req.NoError(store.Save(ctx, sess))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, sess.ID)
	req.ErrorIs(err, board_errors.ErrNotFound)
}

func TestRateLimiter_AuthWindow(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{
		MessageLimit:  1,
		MessageWindow: time.Minute,
		AuthLimit:     2,
		AuthWindow:    time.Minute,
	})

	first, err := limiter.AllowAuth(ctx, "10.0.0.1")
	req.NoError(err)
	req.True(first.Allowed)
	req.Equal(1, first.Remaining)

	second, err := limiter.AllowAuth(ctx, "10.0.0.1")
	req.NoError(err)
	req.True(second.Allowed)
	req.Equal(0, second.Remaining)

	third, err := limiter.AllowAuth(ctx, "10.0.0.1")
	req.NoError(err)
	req.False(third.Allowed)
	req.Equal(2, third.Limit)

	other, err := limiter.AllowAuth(ctx, "10.0.0.2")
	req.NoError(err)
	req.True(other.Allowed)

	req.NoError(limiter.ResetAuth(ctx, "10.0.0.1"))
	again, err := limiter.AllowAuth(ctx, "10.0.0.1")
	req.NoError(err)
	req.True(again.Allowed)
}

func TestRateLimiter_MessagesPerUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{MessageLimit: 1, MessageWindow: time.Minute, AuthLimit: 1, AuthWindow: time.Minute})

	res, err := limiter.AllowMessage(ctx, "alice")
	req.NoError(err)
	req.True(res.Allowed)

	res, err = limiter.AllowMessage(ctx, "alice")
	req.NoError(err)
	req.False(res.Allowed)
}

func TestPublisher_Publish(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, client := newTestClient(t)

	sub := client.Subscribe(ctx, "feed:user:alice")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	req.NoError(err)

	pub := NewPublisher(client)
	req.NoError(pub.Publish(ctx, "feed:user:alice", []byte(`{"type":"message.created"}`)))

	msg, err := sub.ReceiveMessage(ctx)
	req.NoError(err)
	req.JSONEq(`{"type":"message.created"}`, msg.Payload)
}
