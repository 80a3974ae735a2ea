package server

import (
	"commentpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProjects lists the tenant's projects, optionally filtered by status.
func (s *Server) GetProjects(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}

	summaries, err := s.projectService.ListProjects(ctx, owner, c.Query("status"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"projects": summaries})
}

// GetProject returns one project by id.
func (s *Server) GetProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	project, err := s.projectService.GetProject(ctx, pid, owner)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(project)
}
