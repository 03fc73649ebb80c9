package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	cacheport "go-beacon/internal/infrastructure/cache/port"
	"go-beacon/internal/pkg/presence/history"
	"go-beacon/internal/pkg/presence/presentation/controller"
	"go-beacon/internal/pkg/presence/presentation/middleware"
	"go-beacon/internal/pkg/presence/registry"
	"go-beacon/internal/pkg/presence/relay"
)

// RegisterRoutes registers presence-related endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes. cache may be nil, which disables bootstrap rate limiting.
func RegisterRoutes(
	g *gin.RouterGroup,
	reg *registry.Registry,
	log *history.Log,
	engine *relay.Engine,
	cache cacheport.Cache,
	bootstrapLimit int,
	bootstrapWindow time.Duration,
	logger zerolog.Logger,
) {
	bootstrapCtl := controller.NewBootstrapController(reg)
	historyCtl := controller.NewGetHistoryController(log)
	presenceCtl := controller.NewListPresenceController(reg)
	socketCtl := controller.NewPresenceSocketController(reg, engine, logger)

	// POST /api/v1/session -> register or authorize an identity
	g.POST("/session",
		middleware.RateLimit(cache, bootstrapLimit, bootstrapWindow, "session"),
		bootstrapCtl.Handle())

	// GET /api/v1/messages/:userId -> history for a participant
	g.GET("/messages/:userId", historyCtl.Handle())

	// GET /api/v1/presence -> membership snapshot for polling clients
	g.GET("/presence", presenceCtl.Handle())

	// GET /api/v1/presence/ws -> websocket endpoint for realtime traffic
	g.GET("/presence/ws", socketCtl.Handle())
}
