package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/form"
)

// FormScreen is a create form backed by a service.
type FormScreen interface {
	Form() *form.Form
	Submit(ctx context.Context) error
}

type formState struct {
	Values map[string]any `json:"values"`
	Errors form.Errors    `json:"errors,omitempty"`
}

func stateOf(f *form.Form) formState {
	return formState{Values: f.Values(), Errors: f.Errors()}
}

func lookupForm(c *fiber.Ctx, forms map[string]FormScreen) (FormScreen, bool) {
	screen, ok := forms[c.Params("name")]
	return screen, ok
}

func formNotFound(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusNotFound, "FORM_NOT_FOUND", "form not found")
}

// GetForm returns the current input and field errors of a form.
func GetForm(forms map[string]FormScreen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		screen, ok := lookupForm(c, forms)
		if !ok {
			return formNotFound(c)
		}
		return c.JSON(stateOf(screen.Form()))
	}
}

// SetFormValues merges the JSON object in the body into the form input.
func SetFormValues(forms map[string]FormScreen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		screen, ok := lookupForm(c, forms)
		if !ok {
			return formNotFound(c)
		}
		var values map[string]any
		if err := c.BodyParser(&values); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		screen.Form().SetAll(values)
		return c.JSON(stateOf(screen.Form()))
	}
}

func ResetForm(forms map[string]FormScreen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		screen, ok := lookupForm(c, forms)
		if !ok {
			return formNotFound(c)
		}
		screen.Form().Reset()
		return c.JSON(stateOf(screen.Form()))
	}
}

// SubmitForm validates and submits a form. Field errors come back as 422 with the
// input preserved; a successful submit returns the reset form.
func SubmitForm(forms map[string]FormScreen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		screen, ok := lookupForm(c, forms)
		if !ok {
			return formNotFound(c)
		}
		if err := screen.Submit(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stateOf(screen.Form()))
	}
}
