package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/service"
)

// ListCases serves the case picker; ?q= filters on case number and track number.
func ListCases(svc *service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cases, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cases)
	}
}

func GetCase(svc *service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		cs, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cs)
	}
}

func DeleteCase(svc *service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
