package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

// ProjectService exposes the tenant-scoped project views.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
}

// ProjectSummary is a project with its stored row count.
type ProjectSummary struct {
	*models.Project
	CommentCount int64 `json:"comment_count"`
}

func NewProjectService(projectRepo repository.ProjectRepository, commentRepo repository.CommentRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, commentRepo: commentRepo}
}

// ListProjects returns the tenant's projects, optionally filtered by status,
// newest first, each with its comment count.
func (s *ProjectService) ListProjects(ctx context.Context, ownerUUID, status string) ([]*ProjectSummary, error) {
	if ownerUUID == "" {
		return nil, models.NewValidationError("tenant is required")
	}
	if status != "" && !models.ValidStatus(status) {
		return nil, models.NewValidationError("unknown status: " + status)
	}

	var (
		projects []*models.Project
		err      error
	)
	if status == "" {
		projects, err = s.projectRepo.ListByOwner(ctx, ownerUUID)
	} else {
		projects, err = s.projectRepo.ListByOwnerAndStatus(ctx, ownerUUID, status)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]*ProjectSummary, 0, len(projects))
	for _, p := range projects {
		count, err := s.commentRepo.CountByProject(ctx, p.PID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ProjectSummary{Project: p, CommentCount: count})
	}
	return summaries, nil
}

// GetProject returns one project if it belongs to the tenant.
func (s *ProjectService) GetProject(ctx context.Context, pid, ownerUUID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByPID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("project", pid)
		}
		return nil, err
	}
	if project.OwnerUUID != ownerUUID {
		return nil, models.NewNotFoundError("project", pid)
	}
	return project, nil
}
