package repository

import (
	"context"
	"errors"
	"fmt"

	"msgboard/internal/domain/user"
	board_errors "msgboard/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

type MongoUserRepository struct {
	db CollectionProvider
}

func NewUserRepository(db CollectionProvider) UserRepository {
	return &MongoUserRepository{db: db}
}

func (r *MongoUserRepository) Create(ctx context.Context, u user.User) error {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return board_errors.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	coll, err := r.db.Collection(ctx, usersCollection)
	if err != nil {
		return user.User{}, err
	}

	var u user.User
	if err := coll.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, board_errors.ErrNotFound
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
