package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"artisanmart/internal/infrastructure/ratelimit"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/response"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c echo.Context) string

func ByIP(c echo.Context) string {
	return c.RealIP()
}

// ByUser falls back to the client IP for anonymous requests.
func ByUser(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok && uid != "" {
		return "uid:" + uid
	}
	return c.RealIP()
}

func RateLimit(limiter *ratelimit.Limiter, key KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			k := key(c)
			allowed, retryAfter := limiter.Allow(k)
			if !allowed {
				logger.Warn("Rate limit exceeded for %s on %s", k, c.Path())
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Too many requests, please try again later"))
			}
			return next(c)
		}
	}
}
