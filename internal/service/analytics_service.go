package service

import (
	"context"

	"commentpulse/internal/analytics"
	"commentpulse/internal/graph"
	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

// defaultKeywordCount caps the keyword cloud when the caller passes no limit.
const defaultKeywordCount = 50

// AnalyticsService computes derived views (reply network, keyword cloud)
// over a project's stored comments.
type AnalyticsService struct {
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
}

func NewAnalyticsService(projectRepo repository.ProjectRepository, commentRepo repository.CommentRepository) *AnalyticsService {
	return &AnalyticsService{projectRepo: projectRepo, commentRepo: commentRepo}
}

// ReplyNetwork builds the who-replied-to-whom graph for a project, scoped to
// the owning tenant.
func (s *AnalyticsService) ReplyNetwork(ctx context.Context, pid, ownerUUID string) (*graph.Network, error) {
	comments, err := s.projectComments(ctx, pid, ownerUUID)
	if err != nil {
		return nil, err
	}
	return graph.Build(comments), nil
}

// Keywords extracts the most frequent terms from a project's cleaned
// comments.
func (s *AnalyticsService) Keywords(ctx context.Context, pid, ownerUUID string, limit int) ([]analytics.Keyword, error) {
	comments, err := s.projectComments(ctx, pid, ownerUUID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultKeywordCount
	}

	texts := make([]string, 0, len(comments))
	for _, c := range comments {
		if c.CleanStatus == models.CleanStatusCleaned {
			texts = append(texts, c.Content)
		}
	}
	return analytics.TopKeywords(texts, limit), nil
}

// projectComments loads a project's comments after confirming tenant
// ownership.
func (s *AnalyticsService) projectComments(ctx context.Context, pid, ownerUUID string) ([]*models.Comment, error) {
	owner, err := s.projectRepo.OwnerByPID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if owner == "" || owner != ownerUUID {
		return nil, models.NewNotFoundError("project", pid)
	}
	return s.commentRepo.ListByProject(ctx, pid)
}
