package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

// RateLimit is a fixed-window limiter keyed by client IP. Counter errors let
// the request through.
func RateLimit(counter cache.WindowCounter, limit int, window time.Duration, prefix string, logger *slog.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}

	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()

		count, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limiter error", slog.Any("err", err))
			c.Next()
			return
		}

		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests.")
			return
		}
		c.Next()
	}
}
