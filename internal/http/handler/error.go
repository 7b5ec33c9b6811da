package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/apiclient"
	"lawdesk/internal/form"
	"lawdesk/internal/http/middleware"
	"lawdesk/internal/service"
	"lawdesk/internal/session"
	"lawdesk/internal/templates"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "UPSTREAM_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorFields(c, status, code, message, nil)
}

func writeErrorFields(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates errors coming back from services and the backend.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		verr *form.ValidationError
		aerr *apiclient.APIError
		ferr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return writeErrorFields(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", verr.Fields)
	case errors.Is(err, service.ErrUploadIncomplete),
		errors.Is(err, service.ErrTemplateIncomplete),
		errors.Is(err, service.ErrUpdateIncomplete),
		errors.Is(err, session.ErrInvalidUser):
		return writeError(c, fiber.StatusBadRequest, "INCOMPLETE_INPUT", err.Error())
	case errors.Is(err, templates.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
	case errors.As(err, &aerr):
		if aerr.StatusCode == fiber.StatusNotFound {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "upstream request failed")
	case errors.Is(err, context.DeadlineExceeded):
		return writeError(c, fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "upstream request timed out")
	case errors.As(err, &ferr):
		return writeStatusError(c, ferr.Code)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func writeStatusError(c *fiber.Ctx, status int) error {
	switch status {
	case fiber.StatusBadRequest:
		return writeError(c, status, "BAD_REQUEST", "bad request")
	case fiber.StatusNotFound:
		return writeError(c, status, "NOT_FOUND", "resource not found")
	case fiber.StatusMethodNotAllowed:
		return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
	case fiber.StatusRequestEntityTooLarge:
		return writeError(c, status, "PAYLOAD_TOO_LARGE", "payload too large")
	case fiber.StatusServiceUnavailable:
		return writeError(c, status, "SERVICE_UNAVAILABLE", "service unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeServiceError(c, err)
	}
}
