package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	v1 "go-beacon/cmd/api/router/v1"
	cacheadapter "go-beacon/internal/infrastructure/cache/adapter"
	cacheport "go-beacon/internal/infrastructure/cache/port"
	qadapter "go-beacon/internal/infrastructure/queue/adapter"

	"go-beacon/internal/config"
	"go-beacon/internal/pkg/presence/application/task"
	"go-beacon/internal/pkg/presence/history"
	"go-beacon/internal/pkg/presence/registry"
	"go-beacon/internal/pkg/presence/relay"
)

func main() {
	// Load .env file for development; environment wins in production.
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
		gin.SetMode(gin.ReleaseMode)
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Core presence state: one registry and one history log per process.
	reg := registry.New()

	var histOpts []history.Option
	if cfg.HistoryMaxRecords > 0 {
		histOpts = append(histOpts, history.WithMaxRecords(cfg.HistoryMaxRecords))
	}
	hist := history.New(histOpts...)

	// Optional Redis-backed extras: archive queue and bootstrap rate limiting.
	var archiver relay.Archiver
	var cache cacheport.Cache
	if cfg.RedisURL != "" {
		queueClient, err := qadapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("queue client failed")
		}
		defer queueClient.Close()
		archiver = task.NewQueueArchiver(queueClient)

		redisCache, err := cacheadapter.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		cache = redisCache

		logger.Info().Msg("connected to Redis")
	}

	engine := relay.NewEngine(reg, hist, archiver, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		if cache != nil {
			if err := cache.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(r, reg, hist, engine, cache, cfg.BootstrapRateLimit, cfg.BootstrapRateWindow, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting beacon server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
