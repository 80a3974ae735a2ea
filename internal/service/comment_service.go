package service

import (
	"context"

	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

// CommentService serves stored-comment reads from the primary store; search
// queries go through SearchService instead.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// ListProjectCommentsInput pages through one project's comments.
type ListProjectCommentsInput struct {
	PID       string
	OwnerUUID string
	Page      int
	Size      int
}

// CommentPage is one page of comments with their sentiment scores.
type CommentPage struct {
	Total    int64                         `json:"total"`
	Page     int                           `json:"page"`
	Size     int                           `json:"size"`
	Comments []*models.CommentWithSentiment `json:"comments"`
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// ListProjectComments returns a page of the project's comments, each
// left-joined to its sentiment score, scoped to the owning tenant. A pid
// outside the tenant yields an empty page, not an error.
func (s *CommentService) ListProjectComments(ctx context.Context, in ListProjectCommentsInput) (*CommentPage, error) {
	if in.PID == "" {
		return nil, models.NewValidationError("pid is required")
	}
	if in.OwnerUUID == "" {
		return nil, models.NewValidationError("tenant is required")
	}
	if in.Page < 0 {
		in.Page = 0
	}
	if in.Size <= 0 {
		in.Size = 100
	}

	total, err := s.commentRepo.CountByProjectAndOwner(ctx, in.PID, in.OwnerUUID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListWithSentiment(ctx, in.PID, in.OwnerUUID, in.Size, in.Page*in.Size)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Total:    total,
		Page:     in.Page,
		Size:     in.Size,
		Comments: comments,
	}, nil
}

// RecentCleaned returns the tenant's most recently timestamped cleaned rows.
func (s *CommentService) RecentCleaned(ctx context.Context, ownerUUID string, limit int) ([]*models.Comment, error) {
	if ownerUUID == "" {
		return nil, models.NewValidationError("tenant is required")
	}
	if limit <= 0 || limit > previewLimit {
		limit = previewLimit
	}
	return s.commentRepo.RecentCleaned(ctx, ownerUUID, limit)
}
