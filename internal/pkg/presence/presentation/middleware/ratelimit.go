package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "go-beacon/internal/infrastructure/cache/port"
	"go-beacon/internal/infrastructure/metrics"
)

// RateLimit rejects clients that exceed limit requests per window on the
// given endpoint, keyed by client IP. With a nil cache the middleware is a
// pass-through, and cache errors fail open: rate limiting is protection, not
// a dependency.
func RateLimit(cache cacheport.Cache, limit int, window time.Duration, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", endpoint, c.ClientIP())
		count, err := cache.Incr(c.Request.Context(), key, window)
		if err != nil {
			c.Next()
			return
		}

		if count > int64(limit) {
			metrics.RateLimitHits.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
