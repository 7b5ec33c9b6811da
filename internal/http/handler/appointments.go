package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/service"
)

// ListAppointments returns appointments joined with client and lawyer names.
func ListAppointments(svc *service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.Rows(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rows)
	}
}

func ListLawyers(svc *service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lawyers, err := svc.Lawyers(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(lawyers)
	}
}

func UpdateAppointmentStatus(svc *service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body statusBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		appt, err := svc.UpdateStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(appt)
	}
}

func DeleteAppointment(svc *service.AppointmentService) fiber.Handler {
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
