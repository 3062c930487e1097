package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/ratelimit"
)

// RateLimiter allows limit requests per client IP per window. If the counter
// backend fails the request is let through and the failure logged.
func RateLimiter(counter ratelimit.Counter, limit int, window time.Duration, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			count, err := counter.Increment(c.Request().Context(), key, window)
			if err != nil {
				logger.Error().
					Err(err).
					Str("ip", key).
					Msg("rate limiter backend failed")
				return next(c)
			}

			if count > int64(limit) {
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}
