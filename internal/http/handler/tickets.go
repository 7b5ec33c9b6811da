package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/service"
)

// ListTickets returns tickets; ?q= filters on subject and status.
func ListTickets(svc *service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tickets, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tickets)
	}
}

func UpdateTicketStatus(svc *service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body statusBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		t, err := svc.UpdateStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}
