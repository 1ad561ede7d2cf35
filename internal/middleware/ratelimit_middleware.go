package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"msgboard/internal/redis"
	"msgboard/internal/transport/httpdto"
	board_errors "msgboard/pkg/errors"

	"github.com/gin-gonic/gin"
)

// RateLimiter is implemented by redis.RateLimiter.
type RateLimiter interface {
	AllowAuth(ctx context.Context, ip string) (*redis.RateLimitResult, error)
	AllowMessage(ctx context.Context, userID string) (*redis.RateLimitResult, error)
	ResetAuth(ctx context.Context, ip string) error
}

// AuthRateLimitMiddleware limits login and registration attempts per client IP.
// With resetOnSuccess a successful attempt clears the IP's counter. A nil
// limiter disables it.
func AuthRateLimitMiddleware(limiter RateLimiter, resetOnSuccess bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		result, err := limiter.AllowAuth(c.Request.Context(), ip)
		if !checkResult(c, result, err, "too many attempts") {
			return
		}
		c.Next()

		if resetOnSuccess && c.Writer.Status() < http.StatusMultipleChoices {
			if err := limiter.ResetAuth(c.Request.Context(), ip); err != nil {
				_ = c.Error(err)
			}
		}
	}
}

// MessageRateLimitMiddleware limits posts per session user. Anonymous requests
// pass through and are rejected by the handler.
func MessageRateLimitMiddleware(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if limiter == nil || sess.IsAnonymous() {
			c.Next()
			return
		}

		result, err := limiter.AllowMessage(c.Request.Context(), sess.UserID)
		if !checkResult(c, result, err, "too many messages") {
			return
		}
		c.Next()
	}
}

func checkResult(c *gin.Context, result *redis.RateLimitResult, err error, message string) bool {
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
		return false
	}

	setRateLimitHeaders(c, result)

	if !result.Allowed {
		// Rendered as 429 by ErrorHandler.
		_ = c.Error(fmt.Errorf("%w: %s", board_errors.ErrRateLimited, message))
		c.Abort()
		return false
	}
	return true
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
