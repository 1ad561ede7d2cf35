package repository

import (
	"context"
	"testing"
	"time"

	"msgboard/internal/domain/message"
	"msgboard/internal/domain/user"
	board_errors "msgboard/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type testCollections struct {
	db *mongo.Database
}

func (c testCollections) Collection(_ context.Context, name string) (*mongo.Collection, error) {
	return c.db.Collection(name), nil
}

type findCommand struct {
	Filter bson.M `bson:"filter"`
	Sort   bson.D `bson:"sort"`
}

type deleteCommand struct {
	Deletes []struct {
		Q bson.M `bson:"q"`
	} `bson:"deletes"`
}

func messageDoc(m message.Message) bson.D {
	return bson.D{
		{Key: "_id", Value: m.ID},
		{Key: "content", Value: m.Content},
		{Key: "owner_id", Value: m.OwnerID},
		{Key: "created_at", Value: m.CreatedAt},
	}
}

func sortKeys(d bson.D) []string {
	keys := make([]string, 0, len(d))
	for _, e := range d {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestMongoMessageRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := mtest.TestDb + "." + messagesCollection

	mt.Run("list sorts by creation then id", func(mt *mtest.T) {
		req := require.New(mt)
		repo := NewMessageRepository(testCollections{db: mt.DB})

		// Same millisecond: only the id separates them.
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		first, err := message.New("alice", "first", at)
		req.NoError(err)
		second, err := message.New("alice", "second", at)
		req.NoError(err)
		req.Less(first.ID, second.ID)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, messageDoc(first), messageDoc(second)))

		items, err := repo.ListByOwner(context.Background(), "alice")
		req.NoError(err)
		req.Len(items, 2)
		req.Equal(first.ID, items[0].ID)
		req.Equal("second", items[1].Content)

		started := mt.GetStartedEvent()
		req.NotNil(started)
		req.Equal("find", started.CommandName)
		var cmd findCommand
		req.NoError(bson.Unmarshal(started.Command, &cmd))
		req.Equal([]string{"created_at", "_id"}, sortKeys(cmd.Sort))
		req.Equal("alice", cmd.Filter["owner_id"])
	})

	mt.Run("list all has no filter", func(mt *mtest.T) {
		req := require.New(mt)
		repo := NewMessageRepository(testCollections{db: mt.DB})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		items, err := repo.ListAll(context.Background())
		req.NoError(err)
		req.NotNil(items)
		req.Empty(items)

		var cmd findCommand
		req.NoError(bson.Unmarshal(mt.GetStartedEvent().Command, &cmd))
		req.Empty(cmd.Filter)
	})

	mt.Run("duplicate id maps to already exists", func(mt *mtest.T) {
		req := require.New(mt)
		repo := NewMessageRepository(testCollections{db: mt.DB})
		msg, err := message.New("alice", "hello", time.Now())
		req.NoError(err)

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		req.NoError(repo.Create(context.Background(), msg))

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		req.ErrorIs(repo.Create(context.Background(), msg), board_errors.ErrAlreadyExists)
	})

	mt.Run("get missing message", func(mt *mtest.T) {
		repo := NewMessageRepository(testCollections{db: mt.DB})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		require.ErrorIs(mt, err, board_errors.ErrNotFound)
	})

	mt.Run("delete filters on owner", func(mt *mtest.T) {
		req := require.New(mt)
		repo := NewMessageRepository(testCollections{db: mt.DB})

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		req.NoError(repo.DeleteOwned(context.Background(), "m1", "alice"))

		var cmd deleteCommand
		req.NoError(bson.Unmarshal(mt.GetStartedEvent().Command, &cmd))
		req.Len(cmd.Deletes, 1)
		req.Equal("m1", cmd.Deletes[0].Q["_id"])
		req.Equal("alice", cmd.Deletes[0].Q["owner_id"])

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		req.ErrorIs(repo.DeleteOwned(context.Background(), "m1", "bob"), board_errors.ErrNotFound)
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := mtest.TestDb + "." + usersCollection

	mt.Run("lookup by username", func(mt *mtest.T) {
		req := require.New(mt)
		repo := NewUserRepository(testCollections{db: mt.DB})

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "username", Value: "alice"},
			{Key: "password_hash", Value: "hash"},
		}))
		u, err := repo.GetUserByUsername(context.Background(), "alice")
		req.NoError(err)
		req.Equal("u1", u.ID)
		req.Equal("alice", u.Username)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err = repo.GetUserByUsername(context.Background(), "bob")
		req.ErrorIs(err, board_errors.ErrNotFound)
	})

	mt.Run("duplicate username maps to already exists", func(mt *mtest.T) {
		repo := NewUserRepository(testCollections{db: mt.DB})
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: board.users index: uniq_username",
		}))

		err := repo.Create(context.Background(), user.User{ID: "u2", Username: "alice"})
		require.ErrorIs(mt, err, board_errors.ErrAlreadyExists)
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates user and message indexes", func(mt *mtest.T) {
		req := require.New(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		req.NoError(EnsureIndexes(context.Background(), testCollections{db: mt.DB}))

		events := mt.GetAllStartedEvents()
		req.Len(events, 2)
		req.Equal("createIndexes", events[0].CommandName)
		req.Equal(usersCollection, events[0].Command.Lookup("createIndexes").StringValue())
		req.Equal(messagesCollection, events[1].Command.Lookup("createIndexes").StringValue())
	})
}
