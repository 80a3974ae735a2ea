package server

import (
	"errors"

	"commentpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// tenant returns the resolved tenant uuid or writes a 400 response. Callers
// should check: if err != nil { return nil }.
func (s *Server) tenant(c *fiber.Ctx) (string, error) {
	uid, ok := c.Locals("tenantUUID").(string)
	if !ok || uid == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tenant uuid is required"))
		return "", errResponseWritten
	}
	return uid, nil
}

// pid extracts the project id route parameter or writes a 400 response.
func (s *Server) pid(c *fiber.Ctx) (string, error) {
	pid := c.Params("pid")
	if pid == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("pid is required"))
		return "", errResponseWritten
	}
	return pid, nil
}

// mapServiceError converts an AppError code into an HTTP status.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR", "UNSUPPORTED_FORMAT":
		return fiber.StatusBadRequest
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "WORKER_ERROR":
		return fiber.StatusBadGateway
	case "SEARCH_UNAVAILABLE":
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
