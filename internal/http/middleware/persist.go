package middleware

import "github.com/gofiber/fiber/v2"

// PersistGate answers 503 until ready is closed, so no handler sees the session
// before persisted state has been restored.
func PersistGate(ready <-chan struct{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		select {
		case <-ready:
			return c.Next()
		default:
			c.Set(fiber.HeaderRetryAfter, "1")
			return fiber.NewError(fiber.StatusServiceUnavailable, "restoring session")
		}
	}
}
