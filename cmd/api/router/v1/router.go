package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	cacheport "go-beacon/internal/infrastructure/cache/port"
	"go-beacon/internal/pkg/presence/history"
	httpHandler "go-beacon/internal/pkg/presence/presentation/http"
	"go-beacon/internal/pkg/presence/registry"
	"go-beacon/internal/pkg/presence/relay"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(
	r *gin.Engine,
	reg *registry.Registry,
	log *history.Log,
	engine *relay.Engine,
	cache cacheport.Cache,
	bootstrapLimit int,
	bootstrapWindow time.Duration,
	logger zerolog.Logger,
) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, reg, log, engine, cache, bootstrapLimit, bootstrapWindow, logger)
}
