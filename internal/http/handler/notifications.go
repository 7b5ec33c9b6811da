package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/notify"
)

// ListNotifications returns the toasts that have not expired, oldest first.
func ListNotifications(center *notify.Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(center.Active())
	}
}

func DismissNotification(center *notify.Center) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center.Dismiss(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	}
}
