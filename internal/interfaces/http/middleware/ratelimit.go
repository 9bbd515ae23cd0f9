package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/infrastructure/ratelimit"
	"github.com/studyforge/studyforge/internal/shared/errors"
	"github.com/studyforge/studyforge/internal/shared/logger"
	"github.com/studyforge/studyforge/internal/shared/utils"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimit limits requests per client IP. When Redis is unavailable the
// request is let through rather than blocking all traffic.
func RateLimit(limiter Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(decision.Window.Seconds())))
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("Too many requests, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
