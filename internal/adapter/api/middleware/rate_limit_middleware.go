package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"slawn/pkg/errors"
	"slawn/pkg/logger"
	"slawn/pkg/response"
)

type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimit throttles requests per caller. Authenticated callers are keyed by
// user id, everyone else by client IP.
func RateLimit(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if p := Principal(c); p != nil {
				key = "user:" + p.ID
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("RATE LIMIT: Blocked %s on %s (retry in %ds)", key, c.Path(), retryAfter)

				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
