package message

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	board_errors "msgboard/pkg/errors"

	"github.com/google/uuid"
)

// MaxContentLength is the longest content accepted, in characters, after trimming.
const MaxContentLength = 60

// Message represents a document in the messages collection.
// OwnerID is the only ownership field.
type Message struct {
	ID        string    `bson:"_id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// New builds a message owned by ownerID, trimming and validating the content.
func New(ownerID, content string, now time.Time) (Message, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Message{}, board_errors.ErrUnauthorized
	}

	normalized, err := NormalizeContent(content)
	if err != nil {
		return Message{}, err
	}

	// v7 ids are monotonic within the process, so sorting on (created_at, _id)
	// keeps insertion order when timestamps collide at millisecond precision.
	id, err := uuid.NewV7()
	if err != nil {
		return Message{}, fmt.Errorf("generate message id: %w", err)
	}

	return Message{
		ID:        id.String(),
		Content:   normalized,
		OwnerID:   ownerID,
		CreatedAt: now.UTC(),
	}, nil
}

// NormalizeContent trims surrounding whitespace and enforces the length bounds.
func NormalizeContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %w", board_errors.ErrInvalidInput, board_errors.ErrContentEmpty)
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", fmt.Errorf("%w: %w", board_errors.ErrInvalidInput, board_errors.ErrContentTooLong)
	}
	return trimmed, nil
}

func (m Message) OwnedBy(userID string) bool {
	return userID != "" && m.OwnerID == userID
}
