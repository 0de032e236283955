package httpapi

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nvoropaev/pulsefeed/internal/observability"
	"github.com/nvoropaev/pulsefeed/internal/ratelimit"
)

// msgRateLimited is the fixed denial body mandated for rate-limited requests.
const msgRateLimited = "Too many requests, please wait before retrying."

// RateLimit denies the request with a 429 when the client address has
// exhausted its window quota. The response is written directly so the
// body stays fixed regardless of the app's error handler.
func RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			observability.RateLimitDeniedTotal.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": msgRateLimited,
			})
		}
		return c.Next()
	}
}

// Metrics records request counts and latency per method and route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		method := c.Method()
		observability.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
		observability.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
