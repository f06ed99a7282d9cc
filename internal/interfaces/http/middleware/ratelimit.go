package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azampay/momo-checkout/internal/infrastructure/ratelimit"
	"github.com/azampay/momo-checkout/internal/shared/config"
	"github.com/azampay/momo-checkout/internal/shared/logger"
	"github.com/azampay/momo-checkout/internal/shared/utils"
)

// CheckoutRateLimit bounds checkout submissions per client IP. Each accepted
// submission pushes a payment prompt to a wallet, so the limit is far below
// what the rest of the API tolerates. Redis errors let the request through.
func CheckoutRateLimit(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig, log logger.Interface) gin.HandlerFunc {
	limits := ratelimit.Limits{
		PerMinute: cfg.CheckoutPerMinute,
		PerHour:   cfg.CheckoutPerHour,
	}

	return func(c *gin.Context) {
		key := "checkout:" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limits)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"client_ip", c.ClientIP(),
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			log.Warnw("checkout rate limit exceeded",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
