package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a port error onto an HTTP status. Errors cross the
// service bus as strings, so classification is by message content
// rather than by sentinel identity.
func respondError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	var (
		status int
		code   string
	)
	switch {
	case strings.Contains(lower, "not found"):
		status, code = fiber.StatusNotFound, "not_found"
	case strings.Contains(lower, "insufficient stock"):
		status, code = fiber.StatusConflict, "insufficient_stock"
	case strings.Contains(lower, "invalid transition"):
		status, code = fiber.StatusConflict, "invalid_transition"
	case strings.Contains(lower, "already exists"):
		status, code = fiber.StatusConflict, "conflict"
	case strings.Contains(lower, "invalid credentials"),
		strings.Contains(lower, "unauthorized"):
		status, code = fiber.StatusUnauthorized, "unauthorized"
	case strings.Contains(lower, "shipping failed"):
		status, code = fiber.StatusBadGateway, "shipping_failed"
	case strings.Contains(lower, "required"),
		strings.Contains(lower, "must be"),
		strings.Contains(lower, "invalid"):
		status, code = fiber.StatusBadRequest, "validation_error"
	default:
		status, code = fiber.StatusInternalServerError, "internal_error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: code, Message: msg})
}

// badRequest reports a request-shape problem detected in the handler.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
