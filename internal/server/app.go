package server

import (
	"context"
	"errors"
	"fmt"

	"msgboard/config"
	"msgboard/internal/events"
	"msgboard/internal/handler"
	"msgboard/internal/middleware"
	"msgboard/internal/redis"
	"msgboard/internal/repository"
	"msgboard/internal/repository/memory"
	"msgboard/internal/services"
	"msgboard/internal/storage"
	"msgboard/internal/transport/cookie"
	"msgboard/internal/websocket"
	"msgboard/pkg/database"
	"msgboard/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

// App is the wired board: stores, services, handlers and the HTTP server.
type App struct {
	Server *Server

	hub    *websocket.Hub
	bridge *websocket.RedisBridge
	mongo  *database.Mongo
	redis  *goredis.Client
	logger *logger.Logger
}

// Options toggles parts of the app that only make sense for a long-running
// process.
type Options struct {
	LiveFeed bool
}

// NewApp builds the app for cfg. Nothing is dialled here: Mongo connects on
// first use and Redis connects lazily inside go-redis.
func NewApp(ctx context.Context, cfg *config.Config, l *logger.Logger, opts Options) (*App, error) {
	if l == nil {
		l = logger.NewNop()
	}
	app := &App{logger: l, hub: websocket.NewHub()}

	var (
		users     repository.UserRepository
		messages  repository.MessageRepository
		sessions  repository.SessionRepository
		publisher events.Publisher
		limiter   middleware.RateLimiter
		health    func(ctx context.Context) error
	)

	switch {
	case cfg.UsesRedis():
		app.mongo = database.NewMongo(database.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			Timeout:  cfg.MongoTimeout,
		})
		app.redis = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		users = repository.NewUserRepository(app.mongo)
		messages = repository.NewMessageRepository(app.mongo)
		sessions = redis.NewSessionStore(app.redis)
		limiter = redis.NewRateLimiter(app.redis, rateLimitConfig(cfg))
		publisher = events.NewRedisBus(redis.NewPublisher(app.redis))
		if opts.LiveFeed {
			app.bridge = websocket.NewRedisBridge(redis.NewSubscriber(app.redis), app.hub, l)
		}
		health = func(ctx context.Context) error {
			if err := app.mongo.HealthCheck(ctx); err != nil {
				return fmt.Errorf("mongo: %w", err)
			}
			if err := app.redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		}
	case cfg.StorageBackend == config.StorageMemory || cfg.StorageBackend == "":
		if cfg.AppMode == ReleaseMode {
			l.Logger.Warn("memory storage backend in release mode: users, sessions and messages are lost on restart")
		}
		users = memory.NewUserStore()
		messages = memory.NewMessageStore()
		sessions = memory.NewSessionStore()
		publisher = events.NewLocalBus(app.hub)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	codec := cookie.NewCodec(cfg.SessionSecret, cfg.CookieSecure)
	authService := services.NewAuthService(users, sessions, cfg.SessionTTL)
	messageService := services.NewMessageService(messages, publisher, cfg.FeedScope, l)

	handlers := &Handlers{
		Home:     handler.Home(messageService.FeedScope()),
		Auth:     handler.NewAuthHandler(authService, codec),
		Messages: handler.NewMessageHandler(messageService),
		Static:   handler.Static(assets),
	}
	if opts.LiveFeed {
		handlers.Feed = websocket.NewHandler(app.hub, messageService.FeedScope(), l)
	}

	app.Server = New(cfg, l)
	app.Server.SetupRoutes(handlers, Dependencies{
		Sessions: authService,
		Codec:    codec,
		Limiter:  limiter,
		Health:   health,
	})
	return app, nil
}

func rateLimitConfig(cfg *config.Config) redis.RateLimitConfig {
	rl := redis.DefaultRateLimitConfig()
	if cfg.AuthRateLimit > 0 {
		rl.AuthLimit = cfg.AuthRateLimit
	}
	if cfg.MessageRateLimit > 0 {
		rl.MessageLimit = cfg.MessageRateLimit
	}
	return rl
}

func newAssetStore(ctx context.Context, cfg *config.Config) (storage.AssetStore, error) {
	if cfg.StaticS3Bucket == "" {
		return storage.NewDirStore(cfg.StaticDir), nil
	}
	client, err := storage.NewClient(ctx, storage.S3Config{
		Region:    cfg.StaticS3Region,
		Bucket:    cfg.StaticS3Bucket,
		AccessKey: cfg.StaticS3AccessKey,
		SecretKey: cfg.StaticS3SecretKey,
		Endpoint:  cfg.StaticS3Endpoint,
		Prefix:    cfg.StaticS3Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return client, nil
}

// Prepare creates store indexes. It is a no-op for the in-memory backend.
func (a *App) Prepare(ctx context.Context) error {
	if a.mongo == nil {
		return nil
	}
	return repository.EnsureIndexes(ctx, a.mongo)
}

// RunBackground starts the live feed hub and, with Redis, the pub/sub bridge.
// Both stop when ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	go a.hub.Run(ctx)
	if a.bridge != nil {
		go a.bridge.Run(ctx)
	}
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close mongo: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
