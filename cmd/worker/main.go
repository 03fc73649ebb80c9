package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"go-beacon/internal/config"
	"go-beacon/internal/infrastructure/database"
	qadapter "go-beacon/internal/infrastructure/queue/adapter"
	"go-beacon/internal/pkg/presence/application/task"
	"go-beacon/internal/pkg/presence/persistence/repository/adapter"
)

// The worker drains the history queue into the Postgres archive. It is a
// separate process so a slow sink never competes with the relay path.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	if cfg.RedisURL == "" {
		logger.Fatal().Msg("REDIS_URL is required for the worker")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DB_URL is required for the worker")
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()
	logger.Info().Msg("connected to PostgreSQL")

	srv, err := qadapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("queue server failed")
	}

	archive := adapter.NewPgHistoryArchive(pool)
	if err := archive.EnsureSchema(connectCtx); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}
	task.RegisterArchiveRecordTask(srv, archive)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("concurrency", cfg.QueueConcurrency).Msg("starting beacon worker")
	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker failed")
	}
	logger.Info().Msg("worker stopped")
}
