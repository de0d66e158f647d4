package middleware

import (
	"time"

	"tour-leads/logger"
	"tour-leads/types"

	"github.com/gofiber/fiber/v2"
)

// Response bodies beyond this are truncated in the persisted log
const maxLoggedBody = 4096

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody])
	}
	return string(b)
}

// RequestLogger enqueues one log row per request onto the async logger
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestBody := truncate(c.Body())

		err := c.Next()

		asyncLogger.Log(types.LogEntry{
			Method:       c.Method(),
			URL:          c.OriginalURL(),
			ClientIP:     c.IP(),
			RequestBody:  requestBody,
			ResponseBody: truncate(c.Response().Body()),
			StatusCode:   c.Response().StatusCode(),
			CreatedAt:    time.Now(),
		})

		return err
	}
}
