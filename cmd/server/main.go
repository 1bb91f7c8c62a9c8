package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"linkhive/internal/auth"
	"linkhive/internal/config"
	"linkhive/internal/db"
	"linkhive/internal/queue"
	"linkhive/internal/server"
)

func main() {
	seed := flag.Bool("seed", false, "seed a demo user and sample links, print the API key, then continue")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations completed")

	if *seed {
		seedDemoUser(ctx, database)
	}

	// The task queue is optional; without Redis link creation still works,
	// links just stay untitled until edited by hand.
	var q queue.Queue
	if cfg.HasRedis() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		q = queue.NewRedisQueue(client, "")
	} else {
		slog.Warn("no redis configured, enrichment queue disabled")
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, q); err != nil {
		slog.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()
	slog.Info("server started", "addr", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}

// seedDemoUser creates the demo account and prints its API key. The key
// is only visible here; the database stores a hash.
func seedDemoUser(ctx context.Context, database *db.DB) {
	pair, err := auth.GenerateAPIKey()
	if err != nil {
		slog.Error("failed to generate demo api key", "error", err)
		os.Exit(1)
	}

	user, err := database.SeedDemoData(ctx, "Demo User", pair.Hash)
	if err != nil {
		slog.Error("failed to seed demo data", "error", err)
		os.Exit(1)
	}

	fmt.Printf("seeded demo user %d, api key: %s\n", user.ID, pair.Key)
}
