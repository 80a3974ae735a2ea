package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentpulse/internal/models"
	"commentpulse/internal/search"
)

func testComments() []*models.Comment {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	return []*models.Comment{
		{CID: "c1", PID: "p1", Content: "first", Username: "alice", LikeCount: 3, CommentTime: ts},
		{CID: "c2", PID: "p1", Content: "second", Username: "bob", CommentTime: ts.Add(time.Minute)},
		{CID: "c3", PID: "p2", Content: "third", Username: "carol", CommentTime: ts.Add(2 * time.Minute)},
	}
}

func TestSyncService_SyncAll(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listAllFn = func(context.Context) ([]*models.Comment, error) {
		return testComments(), nil
	}
	projectRepo := noopProjectRepo()
	projectRepo.ownerMapFn = func(context.Context) (map[string]string, error) {
		return map[string]string{"p1": "owner-1"}, nil
	}
	sentimentRepo := noopSentimentRepo()
	sentimentRepo.labelsByCIDsFn = func(_ context.Context, cids []string) (map[string]int, error) {
		assert.Len(t, cids, 3)
		return map[string]int{"c1": 1, "c2": -1}, nil
	}

	var docs []*search.Document
	index := noopIndex()
	index.upsertFn = func(_ context.Context, doc *search.Document) error {
		docs = append(docs, doc)
		return nil
	}

	svc := NewSyncService(commentRepo, projectRepo, sentimentRepo, index)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 3, result.Total)
	require.Len(t, docs, 3)

	assert.Equal(t, 1, docs[0].SentimentLabel)
	assert.Equal(t, -1, docs[1].SentimentLabel)
	// Unscored comments default to neutral.
	assert.Equal(t, 0, docs[2].SentimentLabel)

	assert.Equal(t, "owner-1", docs[0].UUID)
	// p2 has no project row; the document stays indexed but unowned.
	assert.Equal(t, UnknownOwner, docs[2].UUID)

	assert.Equal(t, "2024-06-01 12:00:00", docs[0].CommentTime)
	assert.Equal(t, docs[0].CommentTS+60, docs[1].CommentTS)
}

func TestSyncService_SyncAll_PartialWriteFailures(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listAllFn = func(context.Context) ([]*models.Comment, error) {
		return testComments(), nil
	}

	index := noopIndex()
	index.upsertFn = func(_ context.Context, doc *search.Document) error {
		if doc.CID == "c2" {
			return errors.New("write timeout")
		}
		return nil
	}

	svc := NewSyncService(commentRepo, noopProjectRepo(), noopSentimentRepo(), index)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 3, result.Total)
}

func TestSyncService_SyncAll_EnsureIndexFailureAborts(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listAllFn = func(context.Context) ([]*models.Comment, error) {
		return testComments(), nil
	}
	index := noopIndex()
	index.ensureIndexFn = func(context.Context) error {
		return models.NewSearchUnavailableError(errors.New("no route"))
	}

	svc := NewSyncService(commentRepo, noopProjectRepo(), noopSentimentRepo(), index)
	_, err := svc.SyncAll(context.Background())

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SEARCH_UNAVAILABLE", appErr.Code)
}

func TestSyncService_SyncProject(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByProjectFn = func(_ context.Context, pid string) ([]*models.Comment, error) {
		assert.Equal(t, "p1", pid)
		return testComments()[:2], nil
	}
	projectRepo := noopProjectRepo()
	projectRepo.ownerByPIDFn = func(_ context.Context, pid string) (string, error) {
		return "owner-9", nil
	}

	var docs []*search.Document
	index := noopIndex()
	index.upsertFn = func(_ context.Context, doc *search.Document) error {
		docs = append(docs, doc)
		return nil
	}

	svc := NewSyncService(commentRepo, projectRepo, noopSentimentRepo(), index)
	result, err := svc.SyncProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	for _, doc := range docs {
		assert.Equal(t, "owner-9", doc.UUID)
	}
}

func TestSyncService_SyncProject_EmptyPID(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(noopCommentRepo(), noopProjectRepo(), noopSentimentRepo(), noopIndex())
	_, err := svc.SyncProject(context.Background(), "")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// Running the same sync twice produces identical documents, so a resync can
// never corrupt the index.
func TestSyncService_SyncProject_Idempotent(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByProjectFn = func(context.Context, string) ([]*models.Comment, error) {
		return testComments()[:1], nil
	}

	written := make(map[string]*search.Document)
	index := noopIndex()
	index.upsertFn = func(_ context.Context, doc *search.Document) error {
		written[doc.Key()] = doc
		return nil
	}

	svc := NewSyncService(commentRepo, noopProjectRepo(), noopSentimentRepo(), index)
	_, err := svc.SyncProject(context.Background(), "p1")
	require.NoError(t, err)
	first := *written["comment:c1"]

	_, err = svc.SyncProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Len(t, written, 1)
	assert.Equal(t, first, *written["comment:c1"])
}
