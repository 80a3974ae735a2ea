package server

import (
	"commentpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SyncAll mirrors the full comment store into the search index.
func (s *Server) SyncAll(c *fiber.Ctx) error {
	result, err := s.syncService.SyncAll(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(result)
}

// SyncProject mirrors a single project into the search index.
func (s *Server) SyncProject(c *fiber.Ctx) error {
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	result, err := s.syncService.SyncProject(c.UserContext(), pid)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(result)
}
