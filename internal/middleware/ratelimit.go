package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"golang.org/x/time/rate"
)

// RateLimit returns a Gin middleware rejecting requests beyond the limiter's
// rate with 429. A nil limiter disables limiting.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow() {
			c.Next()
			return
		}

		logger.Log.Warn().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Msg("Request rate limited")

		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limited",
			"message": "Too many requests",
		})
	}
}

// NewLimiter builds a limiter for rps requests per second with the given
// burst. A non-positive rps returns nil.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
