package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/types"
)

// ErrorResponse sends a standard error response envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// ServiceErrorResponse translates a service failure into the response
// envelope. Typed CustomErrors keep their status and type; anything else is
// a generic 500 with the fallback type and no internal detail leaked beyond
// the error text.
func ServiceErrorResponse(c *fiber.Ctx, err error, fallbackType string) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	return ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, fallbackType)
}

// MessageResponse sends a simple success message
func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   message,
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// MessageResponseStruct defines the schema for simple success responses
type MessageResponseStruct struct {
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}
