package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"commentpulse/internal/cleaner"
	"commentpulse/internal/ingest"
	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

// CleanerClient is the slice of the worker client the orchestrator uses.
type CleanerClient interface {
	Clean(ctx context.Context, filePath, fileName, projectName, optionsJSON string) (*cleaner.CleanResponse, error)
	FileURL(outputPath string) string
	TriggerSentiment(ctx context.Context, pid string) (string, error)
}

// projectSyncer pushes one project's rows into the search index.
type projectSyncer interface {
	SyncProject(ctx context.Context, pid string) (*SyncResult, error)
}

// previewLimit caps the recent-cleaned rows returned with a clean result.
const previewLimit = 50

// CleanService runs the upload pipeline: register a project, persist the raw
// rows, hand the file to the cleaning worker, persist the cleaned rows, and
// mirror the project into the search index.
type CleanService struct {
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	loader      *ingest.Loader
	worker      CleanerClient
	syncer      projectSyncer
}

// CleanUploadInput describes one uploaded export. FilePath is where the
// handler spooled the upload; FileName is the client's original name and
// decides the parser.
type CleanUploadInput struct {
	OwnerUUID   string
	ProjectName string
	CleanType   string
	Options     map[string]interface{}
	FilePath    string
	FileName    string
}

// PreviewComment is one recently cleaned row shown back to the uploader.
type PreviewComment struct {
	CID         string `json:"cid"`
	Content     string `json:"content"`
	Username    string `json:"username"`
	CommentTime string `json:"comment_time"`
	LikeCount   int    `json:"like_count"`
}

// CleanResult summarizes a finished pipeline run.
type CleanResult struct {
	PID               string           `json:"pid"`
	ProjectName       string           `json:"project_name"`
	Status            string           `json:"status"`
	RawInserted       int              `json:"raw_inserted"`
	CleanedInserted   int              `json:"cleaned_inserted"`
	DuplicatesSkipped int              `json:"duplicates_skipped"`
	RowsFailed        int              `json:"rows_failed"`
	OutputURL         string           `json:"output_url,omitempty"`
	Preview           []PreviewComment `json:"preview"`
}

func NewCleanService(
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	worker CleanerClient,
	syncer projectSyncer,
) *CleanService {
	return &CleanService{
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		loader:      ingest.NewLoader(commentRepo),
		worker:      worker,
		syncer:      syncer,
	}
}

// Run executes the full pipeline for one upload. The project record is the
// source of truth for the run's outcome: it is created running and always
// leaves in success or fail. Raw rows persisted before a worker failure are
// kept.
func (s *CleanService) Run(ctx context.Context, in CleanUploadInput) (*CleanResult, error) {
	if in.OwnerUUID == "" {
		return nil, models.NewValidationError("tenant is required")
	}
	if in.ProjectName == "" {
		return nil, models.NewValidationError("project name is required")
	}
	if in.CleanType == "" {
		in.CleanType = "default"
	}

	now := time.Now()
	project := &models.Project{
		PID:        uuid.NewString(),
		Name:       in.ProjectName,
		OwnerUUID:  in.OwnerUUID,
		CleanType:  in.CleanType,
		Status:     models.StatusRunning,
		CreateTime: now,
		StartTime:  &now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	ctx = middleware.WithProject(ctx, project.PID)

	parsed, err := ingest.ParseFile(in.FilePath, in.FileName)
	if err != nil {
		s.fail(ctx, project.PID)
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "upload parsed",
		slog.Int("rows", len(parsed.Comments)),
		slog.Int("row_errors", len(parsed.Errors)),
	)

	rawLoad := s.loader.Load(ctx, project.PID, models.CleanStatusRaw, parsed.Comments)

	result := &CleanResult{
		PID:               project.PID,
		ProjectName:       project.Name,
		RawInserted:       rawLoad.Inserted(),
		DuplicatesSkipped: rawLoad.DuplicatesSkipped,
		RowsFailed:        len(parsed.Errors) + len(rawLoad.Errors),
	}

	optionsJSON := "{}"
	if len(in.Options) > 0 {
		if raw, err := json.Marshal(in.Options); err == nil {
			optionsJSON = string(raw)
		}
	}

	cleanResp, err := s.worker.Clean(ctx, in.FilePath, in.FileName, in.ProjectName, optionsJSON)
	if err != nil {
		s.fail(ctx, project.PID)
		return nil, models.NewWorkerError("cleaning worker unreachable", err)
	}
	if !cleanResp.Success() {
		s.fail(ctx, project.PID)
		return nil, models.NewWorkerError(cleanResp.Message, nil)
	}

	cleanedLoad := s.loader.Load(ctx, project.PID, models.CleanStatusCleaned, commentsFromPreview(cleanResp.Preview))
	result.CleanedInserted = cleanedLoad.Inserted()
	result.DuplicatesSkipped += cleanedLoad.DuplicatesSkipped
	result.RowsFailed += len(cleanedLoad.Errors)

	if err := s.projectRepo.MarkSuccess(ctx, project.PID); err != nil {
		return nil, err
	}
	result.Status = models.StatusSuccess
	if cleanResp.OutputPath != "" {
		result.OutputURL = s.worker.FileURL(cleanResp.OutputPath)
	}

	// The index lags but the primary store is already committed; a failed
	// incremental sync is recoverable via a manual resync.
	if _, err := s.syncer.SyncProject(ctx, project.PID); err != nil {
		middleware.Logger.WarnContext(ctx, "post-clean index sync failed",
			slog.String("error", err.Error()))
	}

	recent, err := s.commentRepo.RecentCleaned(ctx, in.OwnerUUID, previewLimit)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "preview query failed",
			slog.String("error", err.Error()))
	}
	for _, c := range recent {
		result.Preview = append(result.Preview, PreviewComment{
			CID:         c.CID,
			Content:     c.Content,
			Username:    c.Username,
			CommentTime: c.CommentTime.Format(models.TimeLayout),
			LikeCount:   c.LikeCount,
		})
	}

	middleware.Logger.InfoContext(ctx, "clean pipeline finished",
		slog.Int("raw_inserted", result.RawInserted),
		slog.Int("cleaned_inserted", result.CleanedInserted),
		slog.Int("duplicates_skipped", result.DuplicatesSkipped),
	)
	return result, nil
}

// AnalyzeSentiment asks the worker to score a project's cleaned comments. The
// project must exist and belong to the caller.
func (s *CleanService) AnalyzeSentiment(ctx context.Context, pid, ownerUUID string) (string, error) {
	project, err := s.projectRepo.GetByPID(ctx, pid)
	if err != nil {
		return "", err
	}
	if project.OwnerUUID != ownerUUID {
		return "", models.NewNotFoundError("project", pid)
	}
	return s.worker.TriggerSentiment(ctx, pid)
}

// fail moves the project to its terminal fail state; a transition error at
// this point is only logged since the caller is already returning the
// pipeline error.
func (s *CleanService) fail(ctx context.Context, pid string) {
	if err := s.projectRepo.MarkFail(ctx, pid); err != nil {
		middleware.Logger.ErrorContext(ctx, "marking project failed",
			slog.String("pid", pid),
			slog.String("error", err.Error()))
	}
}

// commentsFromPreview turns the worker's cleaned rows into persistable
// comments. Cleaned rows get fresh ids; they are a second, parallel record of
// the project, not an update of the raw rows.
func commentsFromPreview(rows []cleaner.PreviewRow) []*models.Comment {
	out := make([]*models.Comment, 0, len(rows))
	for _, row := range rows {
		text := row.Text()
		if text == "" {
			continue
		}
		t, err := time.ParseInLocation(models.TimeLayout, row.CommentTime, time.Local)
		if err != nil {
			t = time.Now()
		}
		out = append(out, &models.Comment{
			CID:         uuid.NewString(),
			Kind:        row.CommentType,
			Content:     text,
			Username:    row.Username,
			CommentTime: t,
			LikeCount:   row.LikeCount,
			ReplyCount:  row.ReplyCount,
		})
	}
	return out
}
