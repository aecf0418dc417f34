package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/lib/ratelimit"
	apimodels "schoolconnect-backend/models/api"
)

// RateLimit counts requests per scope and client ip
func RateLimit(scope string, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ratelimit.Instance == nil {
			return ctx.Next()
		}
		key := "rl:" + scope + ":" + ctx.IP()
		if !ratelimit.Instance.Allow(key, limit, window) {
			log.
				WithField("scope", scope).
				WithField("ip", ctx.IP()).
				Warn("rate limit exceeded")
			ctx.Set(fiber.HeaderRetryAfter, retryAfter(window))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(apimodels.NewError("too many requests, try again later"))
		}
		return ctx.Next()
	}
}

func retryAfter(window time.Duration) string {
	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
