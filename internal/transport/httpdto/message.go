package httpdto

import (
	"time"

	"msgboard/internal/domain/message"
)

// CreateMessageRequest is used for POST /messages. Content bounds are enforced
// by the domain after trimming, not by binding.
type CreateMessageRequest struct {
	Content string `json:"content" form:"content"`
}

type MessageDTO struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

type MessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

func NewMessageDTO(m message.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Content:   m.Content,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
	}
}

func NewMessagesResponse(items []message.Message) MessagesResponse {
	out := make([]MessageDTO, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageDTO(m))
	}
	return MessagesResponse{Messages: out}
}
