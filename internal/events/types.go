package events

import (
	"time"

	"msgboard/internal/domain/message"
)

// Message events, formatted as domain.action
const (
	EventTypeMessageCreated = "message.created"
	EventTypeMessageDeleted = "message.deleted"
)

// MessageEvent is the payload pushed to live feed subscribers.
type MessageEvent struct {
	Type      string    `json:"type"`
	MessageID string    `json:"message_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func MessageCreated(m message.Message) MessageEvent {
	return MessageEvent{
		Type:      EventTypeMessageCreated,
		MessageID: m.ID,
		OwnerID:   m.OwnerID,
		Content:   m.Content,
		Timestamp: m.CreatedAt,
	}
}

func MessageDeleted(m message.Message, at time.Time) MessageEvent {
	return MessageEvent{
		Type:      EventTypeMessageDeleted,
		MessageID: m.ID,
		OwnerID:   m.OwnerID,
		Timestamp: at.UTC(),
	}
}
