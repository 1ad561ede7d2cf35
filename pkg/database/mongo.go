package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Mongo is a lazily established connection handle. The first caller of
// Database dials and pings; concurrent first callers wait for that attempt.
// A failed attempt leaves the handle empty so a later request can retry.
type Mongo struct {
	cfg  MongoConfig
	dial func(ctx context.Context, uri string) (*mongo.Client, error)

	mu     sync.Mutex
	client *mongo.Client
}

func NewMongo(cfg MongoConfig) *Mongo {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mongo{cfg: cfg, dial: dialMongo}
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Database returns the configured database, connecting on first use.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		dialCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()

		client, err := m.dial(dialCtx, m.cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		m.client = client
	}
	return m.client.Database(m.cfg.Database), nil
}

func (m *Mongo) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *Mongo) HealthCheck(ctx context.Context) error {
	db, err := m.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
