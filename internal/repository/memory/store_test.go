package memory

import (
	"context"
	"testing"
	"time"

	"msgboard/internal/domain/message"
	"msgboard/internal/domain/session"
	"msgboard/internal/domain/user"
	board_errors "msgboard/pkg/errors"

	"github.com/stretchr/testify/require"
)

func TestMessageStore_OrderAndOwnership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewMessageStore()
	now := time.Now()

	first, _ := message.New("alice", "first", now)
	second, _ := message.New("bob", "second", now.Add(time.Second))
	third, _ := message.New("alice", "third", now.Add(2*time.Second))
	for _, m := range []message.Message{first, second, third} {
		req.NoError(store.Create(ctx, m))
	}
	req.ErrorIs(store.Create(ctx, first), board_errors.ErrAlreadyExists)

	mine, err := store.ListByOwner(ctx, "alice")
	req.NoError(err)
	req.Equal([]message.Message{first, third}, mine)

	all, err := store.ListAll(ctx)
	req.NoError(err)
	req.Len(all, 3)

	req.ErrorIs(store.DeleteOwned(ctx, second.ID, "alice"), board_errors.ErrNotFound)
	req.NoError(store.DeleteOwned(ctx, second.ID, "bob"))

	_, err = store.GetByID(ctx, second.ID)
	req.ErrorIs(err, board_errors.ErrNotFound)
}

func TestUserStore_UniqueUsername(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewUserStore()

	req.NoError(store.Create(ctx, user.User{ID: "1", Username: "alice"}))
	req.ErrorIs(store.Create(ctx, user.User{ID: "2", Username: "alice"}), board_errors.ErrAlreadyExists)

	u, err := store.GetUserByUsername(ctx, "alice")
	req.NoError(err)
	req.Equal("1", u.ID)

	_, err = store.GetUserByUsername(ctx, "bob")
	req.ErrorIs(err, board_errors.ErrNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := session.New("u1", "alice", now, time.Minute)
	req.NoError(store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	req.NoError(err)
	req.Equal(sess, got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	req.ErrorIs(err, board_errors.ErrNotFound)

	req.NoError(store.Delete(ctx, "missing"))
}
