package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/templates"
)

func ListTemplates() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(templates.All())
	}
}

// GetTemplate looks a template up by id or display name.
func GetTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tpl, err := templates.Find(c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tpl)
	}
}
