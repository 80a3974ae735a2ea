// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"commentpulse/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ExistsDuplicate reports whether a comment with the same dedup key
	// (username, content, clean status) already exists within the project.
	ExistsDuplicate(ctx context.Context, pid, username, content, cleanStatus string) (bool, error)
	// ExistsCID reports whether a comment with the given cid exists in the project.
	ExistsCID(ctx context.Context, pid, cid string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Comment, error)
	ListByProject(ctx context.Context, pid string) ([]*models.Comment, error)
	CountByProject(ctx context.Context, pid string) (int64, error)
	// RecentCleaned returns the tenant's most recently timestamped cleaned rows.
	RecentCleaned(ctx context.Context, ownerUUID string, limit int) ([]*models.Comment, error)
	// ListWithSentiment returns a page of a project's comments left-joined to
	// their sentiment scores, scoped to the owning tenant.
	ListWithSentiment(ctx context.Context, pid, ownerUUID string, limit, offset int) ([]*models.CommentWithSentiment, error)
	CountByProjectAndOwner(ctx context.Context, pid, ownerUUID string) (int64, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ExistsDuplicate(ctx context.Context, pid, username, content, cleanStatus string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("pid = ? AND username = ? AND content = ? AND clean_status = ?", pid, username, content, cleanStatus).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *commentRepository) ExistsCID(ctx context.Context, pid, cid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("pid = ? AND cid = ?", pid, cid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *commentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListByProject(ctx context.Context, pid string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("pid = ?", pid).
		Order("comment_time DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByProject(ctx context.Context, pid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("pid = ?", pid).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) RecentCleaned(ctx context.Context, ownerUUID string, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Joins("JOIN projects ON projects.pid = comments.pid").
		Where("comments.clean_status = ? AND projects.uuid = ?", models.CleanStatusCleaned, ownerUUID).
		Order("comments.comment_time DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// sentimentJoinRow is the raw scan target for ListWithSentiment.
type sentimentJoinRow struct {
	CID             string
	PID             string
	ParentCID       string
	Username        string
	Content         string
	CommentTime     time.Time
	LikeCount       int
	ReplyCount      int
	CommentType     int
	SentimentLabel  *int
	ConfidenceScore *float64
}

func (r *commentRepository) ListWithSentiment(ctx context.Context, pid, ownerUUID string, limit, offset int) ([]*models.CommentWithSentiment, error) {
	var rows []sentimentJoinRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.cid, comments.pid, comments.parent_cid, comments.username, comments.content, "+
			"comments.comment_time, comments.like_count, comments.reply_count, comments.comment_type, "+
			"sentiments.sentiment_label, sentiments.confidence_score").
		Joins("JOIN projects ON projects.pid = comments.pid").
		Joins("LEFT JOIN sentiments ON sentiments.cid = comments.cid").
		Where("comments.pid = ? AND projects.uuid = ?", pid, ownerUUID).
		Order("comments.comment_time DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*models.CommentWithSentiment, 0, len(rows))
	for _, row := range rows {
		out = append(out, &models.CommentWithSentiment{
			CID:             row.CID,
			PID:             row.PID,
			ParentCID:       row.ParentCID,
			Username:        row.Username,
			Content:         row.Content,
			CommentTime:     row.CommentTime.Format(models.TimeLayout),
			LikeCount:       row.LikeCount,
			ReplyCount:      row.ReplyCount,
			Kind:            row.CommentType,
			SentimentLabel:  row.SentimentLabel,
			ConfidenceScore: row.ConfidenceScore,
		})
	}
	return out, nil
}

func (r *commentRepository) CountByProjectAndOwner(ctx context.Context, pid, ownerUUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Joins("JOIN projects ON projects.pid = comments.pid").
		Where("comments.pid = ? AND projects.uuid = ?", pid, ownerUUID).
		Count(&count).Error
	return count, err
}
