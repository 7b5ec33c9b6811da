package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/model"
	"lawdesk/internal/session"
)

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user"`
}

func GetSession(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := m.CurrentUser()
		res := sessionResponse{Authenticated: ok}
		if ok {
			res.User = &user
		}
		return c.JSON(res)
	}
}

// Login stores the user returned by the backend's sign-in as the current session.
func Login(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user model.User
		if err := c.BodyParser(&user); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := m.Login(c.UserContext(), user); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sessionResponse{Authenticated: true, User: &user})
	}
}

func Logout(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.Logout(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
