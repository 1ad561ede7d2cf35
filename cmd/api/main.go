package main

import (
	"context"
	"log"
	"time"

	"msgboard/config"
	"msgboard/internal/server"
	"msgboard/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := server.NewApp(ctx, cfg, l, server.Options{LiveFeed: true})
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	prepCtx, prepCancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	if err := app.Prepare(prepCtx); err != nil {
		// The board still serves; indexes are retried on the next start.
		l.Errorf("Failed to ensure indexes: %s", err)
	}
	prepCancel()

	app.RunBackground(ctx)

	if err := app.Server.Start(); err != nil {
		l.Errorf("Server stopped with error: %s", err)
	}

	cancel()
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := app.Close(closeCtx); err != nil {
		l.Errorf("Failed to close stores: %s", err)
	}
}
