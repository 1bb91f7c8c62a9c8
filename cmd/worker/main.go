package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"linkhive/internal/config"
	"linkhive/internal/db"
	"linkhive/internal/enrich"
	"linkhive/internal/queue"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	if !cfg.HasRedis() {
		slog.Error("REDIS_ADDR is required for the enrichment worker")
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	worker := enrich.NewWorker(
		database,
		queue.NewRedisQueue(client, ""),
		enrich.NewHTTPFetcher(),
		enrich.NewSocialClient(cfg.SocialBearerToken),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Start(ctx)
}
