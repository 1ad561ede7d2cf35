package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"msgboard/config"
	"msgboard/internal/repository"
	"msgboard/pkg/database"
)

const usage = `
Message Board - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create collection indexes
  status      Show database connection status

Flags:
  -timeout duration   Overall timeout (default 30s)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db := database.NewMongo(database.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDB,
		Timeout:  cfg.MongoTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	defer func() { _ = db.Close(context.Background()) }()

	switch command {
	case "up":
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		log.Println("Indexes are up to date")
	case "status":
		if err := db.HealthCheck(ctx); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		log.Printf("Connected to %s", cfg.MongoDB)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
