package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

// BackendStatus reports whether the upstream REST backend was reachable at the last probe.
type BackendStatus interface {
	Online() bool
}

// HealthCheck reports whether the persisted state database answers a ping.
// An unreachable backend is reported but does not fail the check; cached reads still work.
func HealthCheck(db *sql.DB, backend BackendStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		body := fiber.Map{"status": "healthy"}
		if backend != nil {
			body["backend"] = "online"
			if !backend.Online() {
				body["backend"] = "offline"
			}
		}
		return c.Status(fiber.StatusOK).JSON(body)
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
