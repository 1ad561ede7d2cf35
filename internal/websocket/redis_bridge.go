package websocket

import (
	"context"
	"time"

	"msgboard/internal/events"
	"msgboard/pkg/logger"

	"go.uber.org/zap"
)

// Subscriber is satisfied by the Redis subscriber.
type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}

// RedisBridge relays feed events published by any instance into the local hub.
type RedisBridge struct {
	subscriber Subscriber
	hub        events.Broadcaster
	logger     *logger.Logger
	retryDelay time.Duration
}

func NewRedisBridge(subscriber Subscriber, hub events.Broadcaster, l *logger.Logger) *RedisBridge {
	if l == nil {
		l = logger.NewNop()
	}
	return &RedisBridge{subscriber: subscriber, hub: hub, logger: l, retryDelay: 2 * time.Second}
}

// Run blocks until ctx is done, resubscribing after connection failures.
func (b *RedisBridge) Run(ctx context.Context) {
	for {
		err := b.subscriber.Subscribe(ctx, []string{events.SubscribePattern}, b.hub.Broadcast)
		if ctx.Err() != nil {
			return
		}
		b.logger.WarnCtx(ctx, "feed subscription dropped", zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.retryDelay):
		}
	}
}
