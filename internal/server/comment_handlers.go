package server

import (
	"strconv"

	"commentpulse/internal/models"
	"commentpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchComments answers a conjunctive query against the search index.
func (s *Server) SearchComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}

	in := service.SearchInput{
		OwnerUUID: owner,
		Keyword:   c.Query("keyword"),
		Username:  c.Query("username"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		MinLike:   c.QueryInt("min_like", 0),
		MaxLike:   c.QueryInt("max_like", 0),
		Page:      c.QueryInt("page", 0),
		Size:      c.QueryInt("size", 0),
	}
	if raw := c.Query("sentiment"); raw != "" {
		label, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("sentiment must be an integer"))
		}
		in.Sentiment = &label
	}

	result, err := s.searchService.Search(ctx, in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(result)
}

// GetProjectComments returns a page of a project's stored comments joined
// with their sentiment scores.
func (s *Server) GetProjectComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}
	pid, err := s.pid(c)
	if err != nil {
		return nil
	}

	page, err := s.commentService.ListProjectComments(ctx, service.ListProjectCommentsInput{
		PID:       pid,
		OwnerUUID: owner,
		Page:      c.QueryInt("page", 0),
		Size:      c.QueryInt("size", 0),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(page)
}

// GetRecentCleaned returns the tenant's most recently cleaned rows.
func (s *Server) GetRecentCleaned(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentService.RecentCleaned(ctx, owner, c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}
