package services

import (
	"context"
	"time"

	"msgboard/config"
	"msgboard/internal/domain/message"
	"msgboard/internal/domain/session"
	"msgboard/internal/events"
	"msgboard/internal/repository"
	board_errors "msgboard/pkg/errors"
	"msgboard/pkg/logger"

	"go.uber.org/zap"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	publisher   events.Publisher
	feedScope   string
	logger      *logger.Logger
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, publisher events.Publisher, feedScope string, l *logger.Logger) *MessageService {
	if publisher == nil {
		publisher = events.NopBus{}
	}
	if feedScope != config.FeedScopeGlobal {
		feedScope = config.FeedScopeUser
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{
		messageRepo: messageRepo,
		publisher:   publisher,
		feedScope:   feedScope,
		logger:      l,
		now:         time.Now,
	}
}

// FeedScope reports whether List is per-user or global.
func (s *MessageService) FeedScope() string {
	return s.feedScope
}

// Create posts content as the session user.
func (s *MessageService) Create(ctx context.Context, sess session.Session, content string) (message.Message, error) {
	if sess.IsAnonymous() {
		return message.Message{}, board_errors.ErrUnauthorized
	}

	msg, err := message.New(sess.UserID, content, s.now())
	if err != nil {
		return message.Message{}, err
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return message.Message{}, err
	}

	s.publish(ctx, events.MessageCreated(msg))
	return msg, nil
}

// List returns the feed in insertion order: the session user's messages, or
// every message when the feed scope is global.
func (s *MessageService) List(ctx context.Context, sess session.Session) ([]message.Message, error) {
	if s.feedScope == config.FeedScopeGlobal {
		return s.messageRepo.ListAll(ctx)
	}
	if sess.IsAnonymous() {
		return nil, board_errors.ErrUnauthorized
	}
	return s.messageRepo.ListByOwner(ctx, sess.UserID)
}

func (s *MessageService) Get(ctx context.Context, sess session.Session, id string) (message.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return message.Message{}, err
	}
	if s.feedScope == config.FeedScopeUser && !msg.OwnedBy(sess.UserID) {
		if sess.IsAnonymous() {
			return message.Message{}, board_errors.ErrUnauthorized
		}
		return message.Message{}, board_errors.ErrForbidden
	}
	return msg, nil
}

// Delete removes a message owned by the session user.
func (s *MessageService) Delete(ctx context.Context, sess session.Session, id string) error {
	if sess.IsAnonymous() {
		return board_errors.ErrUnauthorized
	}

	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !msg.OwnedBy(sess.UserID) {
		return board_errors.ErrForbidden
	}

	if err := s.messageRepo.DeleteOwned(ctx, id, sess.UserID); err != nil {
		return err
	}

	s.publish(ctx, events.MessageDeleted(msg, s.now()))
	return nil
}

func (s *MessageService) publish(ctx context.Context, event events.MessageEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnCtx(ctx, "publish message event failed",
			zap.String("type", event.Type),
			zap.String("message_id", event.MessageID),
			zap.Error(err))
	}
}
