package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Publisher delivers message events to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, event MessageEvent) error
}

// RawPublisher is satisfied by the Redis publisher.
type RawPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Broadcaster is satisfied by the websocket hub.
type Broadcaster interface {
	Broadcast(channel string, payload []byte)
}

// RedisBus fans events out through Redis pub/sub so every instance sees them.
type RedisBus struct {
	publisher RawPublisher
}

func NewRedisBus(publisher RawPublisher) *RedisBus {
	return &RedisBus{publisher: publisher}
}

func (b *RedisBus) Publish(ctx context.Context, event MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var errs []error
	for _, channel := range ResolveChannels(event) {
		if err := b.publisher.Publish(ctx, channel, data); err != nil {
			errs = append(errs, fmt.Errorf("publish to %s: %w", channel, err))
		}
	}
	return errors.Join(errs...)
}

// LocalBus delivers events straight to an in-process hub. Used when no Redis
// is configured.
type LocalBus struct {
	hub Broadcaster
}

func NewLocalBus(hub Broadcaster) *LocalBus {
	return &LocalBus{hub: hub}
}

func (b *LocalBus) Publish(_ context.Context, event MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	for _, channel := range ResolveChannels(event) {
		b.hub.Broadcast(channel, data)
	}
	return nil
}

type NopBus struct{}

func (NopBus) Publish(context.Context, MessageEvent) error { return nil }
