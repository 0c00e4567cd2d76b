package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pizzabook/pizza-api/internal/api/handler"
	"github.com/pizzabook/pizza-api/internal/api/metrics"
	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/infrastructure/db/redis"
)

// Limiter decides whether one more request from subject fits its window.
type Limiter interface {
	Allow(ctx context.Context, subject string) (redis.Decision, error)
}

// RateLimit throttles requests per session e-mail, falling back to the client
// IP for anonymous callers. When the limiter itself fails the request is let
// through and the failure logged.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, _ := c.Get(handler.EmailKey).(string)
			if subject == "" {
				subject = c.RealIP()
			}

			d, err := limiter.Allow(c.Request().Context(), subject)
			if err != nil {
				log.Warn().Err(err).Str("path", c.Path()).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				retry := int(time.Until(d.ResetAt).Seconds())
				if retry < 1 {
					retry = 1
				}
				h.Set("Retry-After", strconv.Itoa(retry))
				metrics.RateLimitedTotal.Inc()
				return domain.ErrRateLimited
			}

			return next(c)
		}
	}
}
