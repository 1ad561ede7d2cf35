package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db CollectionProvider) error {
	users, err := db.Collection(ctx, usersCollection)
	if err != nil {
		return err
	}
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	messages, err := db.Collection(ctx, messagesCollection)
	if err != nil {
		return err
	}
	if _, err := messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_messages_owner_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_messages_created"),
		},
	}); err != nil {
		return fmt.Errorf("create messages indexes: %w", err)
	}
	return nil
}
