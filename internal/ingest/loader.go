package ingest

import (
	"context"
	"log/slog"

	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

// InsertError records a single comment that could not be persisted. Insert
// errors are accumulated, never fatal to the batch.
type InsertError struct {
	CID    string `json:"cid"`
	Reason string `json:"reason"`
}

// LoadResult reports what one loader invocation did. Callers use the counts
// for status messages, not control flow.
type LoadResult struct {
	ParentsInserted   int           `json:"parents_inserted"`
	ChildrenInserted  int           `json:"children_inserted"`
	DuplicatesSkipped int           `json:"duplicates_skipped"`
	Errors            []InsertError `json:"errors,omitempty"`
}

// Inserted returns the total number of persisted rows.
func (r *LoadResult) Inserted() int {
	return r.ParentsInserted + r.ChildrenInserted
}

// Loader persists parsed comment batches. Top-level records are inserted
// before children so that the orphan check can see same-batch parents.
type Loader struct {
	comments repository.CommentRepository
}

// NewLoader creates a Loader backed by the given comment repository.
func NewLoader(comments repository.CommentRepository) *Loader {
	return &Loader{comments: comments}
}

// Load assigns the batch to a project, tags it with cleanStatus, and persists
// it in parent-then-child order. Duplicates under the (username, content,
// clean status) key are skipped; children whose parent is absent from the
// project are demoted to orphans (parent cleared, kind kept).
func (l *Loader) Load(ctx context.Context, pid, cleanStatus string, batch []*models.Comment) *LoadResult {
	result := &LoadResult{}

	var parents, children []*models.Comment
	for _, c := range batch {
		if c.IsTopLevel() {
			parents = append(parents, c)
		} else {
			children = append(children, c)
		}
	}

	for _, c := range parents {
		if l.insertOne(ctx, pid, cleanStatus, c, result) {
			result.ParentsInserted++
		}
	}

	for _, c := range children {
		if c.ParentCID != "" {
			parentOK, err := l.comments.ExistsCID(ctx, pid, c.ParentCID)
			if err != nil {
				l.recordError(ctx, c, err, result)
				continue
			}
			if !parentOK {
				c.ParentCID = ""
			}
		}
		if l.insertOne(ctx, pid, cleanStatus, c, result) {
			result.ChildrenInserted++
		}
	}

	return result
}

// insertOne normalizes, dedup-checks and persists a single comment. It
// returns true only when a row was actually written.
func (l *Loader) insertOne(ctx context.Context, pid, cleanStatus string, c *models.Comment, result *LoadResult) bool {
	c.PID = pid
	c.CleanStatus = cleanStatus
	c.Content = models.TruncateContent(c.Content)
	c.Username = normalizeUsername(c.Username)

	exists, err := l.comments.ExistsDuplicate(ctx, pid, c.Username, c.Content, cleanStatus)
	if err != nil {
		l.recordError(ctx, c, err, result)
		return false
	}
	if exists {
		result.DuplicatesSkipped++
		middleware.RowsSkipped.WithLabelValues("duplicate").Inc()
		return false
	}

	if err := l.comments.Create(ctx, c); err != nil {
		l.recordError(ctx, c, err, result)
		return false
	}
	return true
}

func (l *Loader) recordError(ctx context.Context, c *models.Comment, err error, result *LoadResult) {
	result.Errors = append(result.Errors, InsertError{CID: c.CID, Reason: err.Error()})
	middleware.RowsSkipped.WithLabelValues("insert_error").Inc()
	middleware.Logger.WarnContext(ctx, "comment insert failed",
		slog.String("cid", c.CID),
		slog.String("username", c.Username),
		slog.String("error", err.Error()),
	)
}
