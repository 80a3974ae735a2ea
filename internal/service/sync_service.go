package service

import (
	"context"
	"log/slog"

	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
	"commentpulse/internal/repository"
	"commentpulse/internal/search"
)

// UnknownOwner marks index documents whose project no longer resolves to a
// tenant. They stay searchable for operators but never match a tenant query.
const UnknownOwner = "unknown"

// SyncService pushes the persisted comment store into the search index. The
// index is a derived view; a resync is always safe to repeat.
type SyncService struct {
	commentRepo   repository.CommentRepository
	projectRepo   repository.ProjectRepository
	sentimentRepo repository.SentimentRepository
	index         search.Indexer
}

// SyncResult reports how much of the candidate set made it into the index.
type SyncResult struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}

func NewSyncService(
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	sentimentRepo repository.SentimentRepository,
	index search.Indexer,
) *SyncService {
	return &SyncService{
		commentRepo:   commentRepo,
		projectRepo:   projectRepo,
		sentimentRepo: sentimentRepo,
		index:         index,
	}
}

// SyncAll mirrors every stored comment into the index. Per-document write
// failures are counted, logged and skipped; only a failure to read the
// primary store aborts the sync.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	comments, err := s.commentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owners, err := s.projectRepo.OwnerMap(ctx)
	if err != nil {
		return nil, err
	}
	return s.syncBatch(ctx, comments, func(pid string) string {
		if owner, ok := owners[pid]; ok && owner != "" {
			return owner
		}
		return UnknownOwner
	})
}

// SyncProject mirrors a single project's comments into the index.
func (s *SyncService) SyncProject(ctx context.Context, pid string) (*SyncResult, error) {
	if pid == "" {
		return nil, models.NewValidationError("pid is required")
	}
	comments, err := s.commentRepo.ListByProject(ctx, pid)
	if err != nil {
		return nil, err
	}
	owner, err := s.projectRepo.OwnerByPID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		owner = UnknownOwner
	}
	return s.syncBatch(ctx, comments, func(string) string { return owner })
}

func (s *SyncService) syncBatch(ctx context.Context, comments []*models.Comment, ownerOf func(pid string) string) (*SyncResult, error) {
	if err := s.index.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	cids := make([]string, 0, len(comments))
	for _, c := range comments {
		cids = append(cids, c.CID)
	}
	labels, err := s.sentimentRepo.LabelsByCIDs(ctx, cids)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Total: len(comments)}
	for _, c := range comments {
		doc := documentFor(c, labels[c.CID], ownerOf(c.PID))
		if err := s.index.Upsert(ctx, doc); err != nil {
			middleware.Logger.WarnContext(ctx, "index write failed",
				slog.String("cid", c.CID),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Synced++
	}

	middleware.Logger.InfoContext(ctx, "index sync finished",
		slog.Int("synced", result.Synced),
		slog.Int("total", result.Total),
	)
	return result, nil
}

// documentFor projects a comment into its index form. Unscored comments carry
// a neutral sentiment label.
func documentFor(c *models.Comment, label int, owner string) *search.Document {
	return &search.Document{
		CID:            c.CID,
		ContentClean:   c.Content,
		Username:       c.Username,
		LikeCount:      c.LikeCount,
		SentimentLabel: label,
		CommentTime:    c.CommentTime.Format(models.TimeLayout),
		CommentTS:      c.CommentTime.Unix(),
		PID:            c.PID,
		UUID:           owner,
	}
}
