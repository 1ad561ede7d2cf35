package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"msgboard/config"
	"msgboard/internal/domain/session"
	"msgboard/internal/events"
	"msgboard/internal/repository/memory"
	board_errors "msgboard/pkg/errors"

	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []events.MessageEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e events.MessageEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func newSession(userID string) session.Session {
	return session.New(userID, userID, time.Now(), time.Hour)
}

func TestMessageService_Create(t *testing.T) {
	ctx := context.Background()
	alice := newSession("alice")

	t.Run("stores trimmed content for the session user", func(t *testing.T) {
		req := require.New(t)
		repo := memory.NewMessageStore()
		pub := &capturePublisher{}
		svc := NewMessageService(repo, pub, config.FeedScopeUser, nil)

		msg, err := svc.Create(ctx, alice, "   hello  ")
		req.NoError(err)
		req.Equal("hello", msg.Content)
		req.Equal("alice", msg.OwnerID)

		stored, err := repo.GetByID(ctx, msg.ID)
		req.NoError(err)
		req.Equal("hello", stored.Content)

		req.Len(pub.events, 1)
		req.Equal(events.EventTypeMessageCreated, pub.events[0].Type)
	})

	t.Run("rejects invalid content without persisting", func(t *testing.T) {
		for _, content := range []string{"", "   ", strings.Repeat("x", 61)} {
			req := require.New(t)
			repo := memory.NewMessageStore()
			svc := NewMessageService(repo, nil, config.FeedScopeUser, nil)

			_, err := svc.Create(ctx, alice, content)
			req.ErrorIs(err, board_errors.ErrInvalidInput)

			all, err := repo.ListAll(ctx)
			req.NoError(err)
			req.Empty(all)
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		req := require.New(t)
		repo := memory.NewMessageStore()
		svc := NewMessageService(repo, nil, config.FeedScopeUser, nil)

		_, err := svc.Create(ctx, session.Anonymous, "hello")
		req.ErrorIs(err, board_errors.ErrUnauthorized)

		all, _ := repo.ListAll(ctx)
		req.Empty(all)
	})

	t.Run("publish failures do not fail the post", func(t *testing.T) {
		svc := NewMessageService(memory.NewMessageStore(), &capturePublisher{err: errors.New("redis down")}, config.FeedScopeUser, nil)
		_, err := svc.Create(ctx, alice, "still saved")
		require.NoError(t, err)
	})
}

func TestMessageService_ListScope(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMessageStore()
	alice, bob := newSession("alice"), newSession("bob")

	userFeed := NewMessageService(repo, nil, config.FeedScopeUser, nil)
	_, err := userFeed.Create(ctx, alice, "one")
	require.NoError(t, err)
	_, err = userFeed.Create(ctx, bob, "two")
	require.NoError(t, err)
	_, err = userFeed.Create(ctx, alice, "three")
	require.NoError(t, err)

	t.Run("user scope lists own messages in order", func(t *testing.T) {
		req := require.New(t)
		items, err := userFeed.List(ctx, alice)
		req.NoError(err)
		req.Len(items, 2)
		req.Equal("one", items[0].Content)
		req.Equal("three", items[1].Content)

		_, err = userFeed.List(ctx, session.Anonymous)
		req.ErrorIs(err, board_errors.ErrUnauthorized)
	})

	t.Run("global scope lists everything", func(t *testing.T) {
		req := require.New(t)
		globalFeed := NewMessageService(repo, nil, config.FeedScopeGlobal, nil)
		items, err := globalFeed.List(ctx, session.Anonymous)
		req.NoError(err)
		req.Len(items, 3)
		req.Equal(config.FeedScopeGlobal, globalFeed.FeedScope())
	})

	t.Run("unknown scope falls back to user", func(t *testing.T) {
		require.Equal(t, config.FeedScopeUser, NewMessageService(repo, nil, "everything", nil).FeedScope())
	})
}

func TestMessageService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMessageStore()
	pub := &capturePublisher{}
	svc := NewMessageService(repo, pub, config.FeedScopeUser, nil)
	alice, bob := newSession("alice"), newSession("bob")

	msg, err := svc.Create(ctx, alice, "hello")
	require.NoError(t, err)

	t.Run("anonymous is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, session.Anonymous, msg.ID), board_errors.ErrUnauthorized)
	})

	t.Run("other users are refused and the record remains", func(t *testing.T) {
		req := require.New(t)
		req.ErrorIs(svc.Delete(ctx, bob, msg.ID), board_errors.ErrForbidden)
		_, err := repo.GetByID(ctx, msg.ID)
		req.NoError(err)
	})

	t.Run("missing message", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, alice, "nope"), board_errors.ErrNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := require.New(t)
		req.NoError(svc.Delete(ctx, alice, msg.ID))
		items, err := svc.List(ctx, alice)
		req.NoError(err)
		req.Empty(items)
		req.Equal(events.EventTypeMessageDeleted, pub.events[len(pub.events)-1].Type)
	})
}

func TestMessageService_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc := NewMessageService(memory.NewMessageStore(), nil, config.FeedScopeUser, nil)
	alice, bob := newSession("alice"), newSession("bob")

	msg, err := svc.Create(ctx, alice, "hello")
	req.NoError(err)

	got, err := svc.Get(ctx, alice, msg.ID)
	req.NoError(err)
	req.Equal(msg, got)

	_, err = svc.Get(ctx, bob, msg.ID)
	req.ErrorIs(err, board_errors.ErrForbidden)

	_, err = svc.Get(ctx, session.Anonymous, msg.ID)
	req.ErrorIs(err, board_errors.ErrUnauthorized)
}
