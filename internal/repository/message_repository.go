package repository

import (
	"context"
	"errors"
	"fmt"

	"msgboard/internal/domain/message"
	board_errors "msgboard/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = "messages"

type MongoMessageRepository struct {
	db CollectionProvider
}

func NewMessageRepository(db CollectionProvider) MessageRepository {
	return &MongoMessageRepository{db: db}
}

func (r *MongoMessageRepository) Create(ctx context.Context, m message.Message) error {
	coll, err := r.db.Collection(ctx, messagesCollection)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return board_errors.ErrAlreadyExists
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) GetByID(ctx context.Context, id string) (message.Message, error) {
	coll, err := r.db.Collection(ctx, messagesCollection)
	if err != nil {
		return message.Message{}, err
	}

	var m message.Message
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return message.Message{}, board_errors.ErrNotFound
		}
		return message.Message{}, fmt.Errorf("find message: %w", err)
	}
	return m, nil
}

func (r *MongoMessageRepository) ListByOwner(ctx context.Context, ownerID string) ([]message.Message, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *MongoMessageRepository) ListAll(ctx context.Context) ([]message.Message, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoMessageRepository) find(ctx context.Context, filter bson.M) ([]message.Message, error) {
	coll, err := r.db.Collection(ctx, messagesCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]message.Message, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return items, nil
}

func (r *MongoMessageRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	coll, err := r.db.Collection(ctx, messagesCollection)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return board_errors.ErrNotFound
	}
	return nil
}
