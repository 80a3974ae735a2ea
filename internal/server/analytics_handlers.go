package server

import (
	"commentpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeSentiment asks the worker to score a project's cleaned comments.
// The worker answers asynchronously; scores land in the sentiments table and
// reach the index on the next sync.
func (s *Server) AnalyzeSentiment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	message, err := s.cleanService.AnalyzeSentiment(ctx, pid, owner)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": message})
}

// GetReplyNetwork returns the project's who-replied-to-whom graph.
func (s *Server) GetReplyNetwork(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	network, err := s.analyticsService.ReplyNetwork(ctx, pid, owner)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(network)
}

// GetKeywords returns the most frequent terms in a project's cleaned
// comments.
func (s *Server) GetKeywords(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	keywords, err := s.analyticsService.Keywords(ctx, pid, owner, c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"keywords": keywords})
}
