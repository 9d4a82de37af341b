package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"studybud/internal/domain"
	"studybud/internal/service"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	limit            int
	window           time.Duration
	log              logger.Logger
}

// NewRateLimitMiddleware limits each client IP to limit requests per window.
// A nil service disables limiting.
func NewRateLimitMiddleware(rateLimitService service.RateLimitService, limit int, window time.Duration, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		limit:            limit,
		window:           window,
		log:              log,
	}
}

// Limit counts requests per client IP under scope, so separate endpoints
// keep separate budgets.
func (m *RateLimitMiddleware) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.rateLimitService == nil {
			c.Next()
			return
		}

		key := domain.RateLimitKey(scope, c.ClientIP())

		decision, err := m.rateLimitService.Allow(c.Request.Context(), key, m.limit, m.window)
		if err != nil {
			m.log.Error("Rate limit check failed", "error", err, "scope", scope)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
			_ = c.Error(pkgerrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

// retryAfterSeconds rounds up so clients never retry before the window resets.
func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
