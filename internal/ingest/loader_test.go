package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commentpulse/internal/models"
	"commentpulse/internal/repository"
)

func setupLoader(t *testing.T) (*Loader, repository.CommentRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Comment{}))

	repo := repository.NewCommentRepository(db)
	return NewLoader(repo), repo
}

func comment(cid, parentCID, username, content string, kind int) *models.Comment {
	return &models.Comment{
		CID:         cid,
		ParentCID:   parentCID,
		Username:    username,
		Content:     content,
		Kind:        kind,
		CommentTime: time.Now(),
	}
}

func TestLoader_ParentsBeforeChildren(t *testing.T) {
	t.Parallel()
	loader, repo := setupLoader(t)
	ctx := context.Background()

	// Child listed before its parent; insertion order must not matter.
	batch := []*models.Comment{
		comment("c2", "c1", "bob", "reply", models.KindReply),
		comment("c1", "", "alice", "top", models.KindTopLevel),
	}

	result := loader.Load(ctx, "p1", models.CleanStatusRaw, batch)

	assert.Equal(t, 1, result.ParentsInserted)
	assert.Equal(t, 1, result.ChildrenInserted)
	assert.Empty(t, result.Errors)

	stored, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, c := range stored {
		if c.CID == "c2" {
			// Parent was in the same batch, so the link survives.
			assert.Equal(t, "c1", c.ParentCID)
		}
	}
}

func TestLoader_OrphanDemotion(t *testing.T) {
	t.Parallel()
	loader, repo := setupLoader(t)
	ctx := context.Background()

	batch := []*models.Comment{
		comment("c1", "ghost", "bob", "reply to nothing", models.KindReply),
	}

	result := loader.Load(ctx, "p1", models.CleanStatusRaw, batch)
	assert.Equal(t, 1, result.ChildrenInserted)

	stored, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	// The dangling parent link is cleared but the row stays a reply.
	assert.Empty(t, stored[0].ParentCID)
	assert.Equal(t, models.KindReply, stored[0].Kind)
}

func TestLoader_DedupWithinProject(t *testing.T) {
	t.Parallel()
	loader, repo := setupLoader(t)
	ctx := context.Background()

	first := loader.Load(ctx, "p1", models.CleanStatusRaw, []*models.Comment{
		comment("c1", "", "alice", "same text", models.KindTopLevel),
	})
	assert.Equal(t, 1, first.ParentsInserted)

	second := loader.Load(ctx, "p1", models.CleanStatusRaw, []*models.Comment{
		comment("c2", "", "alice", "same text", models.KindTopLevel),
	})
	assert.Equal(t, 0, second.ParentsInserted)
	assert.Equal(t, 1, second.DuplicatesSkipped)

	// The same text under another project or clean status is not a duplicate.
	otherProject := loader.Load(ctx, "p2", models.CleanStatusRaw, []*models.Comment{
		comment("c3", "", "alice", "same text", models.KindTopLevel),
	})
	assert.Equal(t, 1, otherProject.ParentsInserted)

	cleaned := loader.Load(ctx, "p1", models.CleanStatusCleaned, []*models.Comment{
		comment("c4", "", "alice", "same text", models.KindTopLevel),
	})
	assert.Equal(t, 1, cleaned.ParentsInserted)

	count, err := repo.CountByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLoader_NormalizesBeforeInsert(t *testing.T) {
	t.Parallel()
	loader, repo := setupLoader(t)
	ctx := context.Background()

	c := comment("c1", "", "   ", "content", models.KindTopLevel)
	loader.Load(ctx, "p1", models.CleanStatusRaw, []*models.Comment{c})

	stored, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.DefaultUsername, stored[0].Username)
	assert.Equal(t, "p1", stored[0].PID)
	assert.Equal(t, models.CleanStatusRaw, stored[0].CleanStatus)
}

func TestLoader_InsertErrorDoesNotAbortBatch(t *testing.T) {
	t.Parallel()
	loader, repo := setupLoader(t)
	ctx := context.Background()

	// Second row collides on (pid, cid) and fails the unique index; the third
	// row must still be inserted.
	batch := []*models.Comment{
		comment("c1", "", "alice", "one", models.KindTopLevel),
		comment("c1", "", "bob", "two", models.KindTopLevel),
		comment("c3", "", "carol", "three", models.KindTopLevel),
	}

	result := loader.Load(ctx, "p1", models.CleanStatusRaw, batch)

	assert.Equal(t, 2, result.ParentsInserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "c1", result.Errors[0].CID)

	count, err := repo.CountByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
