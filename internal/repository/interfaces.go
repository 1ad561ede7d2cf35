package repository

import (
	"context"

	"msgboard/internal/domain/message"
	"msgboard/internal/domain/session"
	"msgboard/internal/domain/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionProvider hands out collections of the board database. It is
// satisfied by *database.Mongo.
type CollectionProvider interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m message.Message) error
	GetByID(ctx context.Context, id string) (message.Message, error)
	// ListByOwner returns the owner's messages in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]message.Message, error)
	ListAll(ctx context.Context) ([]message.Message, error)
	// DeleteOwned removes the message only while it still belongs to ownerID.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

type UserRepository interface {
	Create(ctx context.Context, u user.User) error
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

type SessionRepository interface {
	Save(ctx context.Context, s session.Session) error
	Get(ctx context.Context, id string) (session.Session, error)
	Delete(ctx context.Context, id string) error
}
