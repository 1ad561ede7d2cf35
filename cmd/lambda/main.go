package main

import (
	"context"
	"log"

	"msgboard/config"
	"msgboard/internal/server"
	"msgboard/pkg/logger"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// The app is built once per container and reused across invocations, so the
// Mongo handle and Redis pool survive between requests.
func main() {
	cfg := config.LoadServerlessConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	app, err := server.NewApp(context.Background(), cfg, l, server.Options{LiveFeed: false})
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	// Once per cold start. Index creation is idempotent.
	prepCtx, prepCancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	if err := app.Prepare(prepCtx); err != nil {
		l.Errorf("Failed to ensure indexes: %s", err)
	}
	prepCancel()

	adapter := httpadapter.New(app.Server.Handler())
	lambda.Start(adapter.ProxyWithContext)
}
