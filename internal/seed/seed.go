// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"commentpulse/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumTenants         int
	ProjectsPerTenant  int
	CommentsPerProject int
	ShouldClean        bool
}

// DefaultOptions returns a small but representative data set.
func DefaultOptions() Options {
	return Options{
		NumTenants:         2,
		ProjectsPerTenant:  3,
		CommentsPerProject: 40,
	}
}

var sampleComments = []string{
	"这个产品真的很好用，推荐购买",
	"质量一般般，不太满意",
	"物流很快，包装也不错",
	"性价比很高，会回购的",
	"客服态度太差了",
	"用了一个月就坏了",
	"颜值很高，朋友都说好看",
	"比想象中的要小一些",
}

// Run populates the database with fake tenants, projects, comments and
// sentiment scores.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	for t := 0; t < opts.NumTenants; t++ {
		tenant := uuid.NewString()
		log.Printf("seeding tenant %s", tenant)
		for p := 0; p < opts.ProjectsPerTenant; p++ {
			if err := seedProject(db, tenant, opts.CommentsPerProject); err != nil {
				return err
			}
		}
	}
	return nil
}

func clean(db *gorm.DB) error {
	for _, table := range []string{"sentiments", "comments", "projects"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("cleaning %s: %w", table, err)
		}
	}
	return nil
}

func seedProject(db *gorm.DB, tenant string, numComments int) error {
	created := gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now())
	start := created.Add(time.Second)
	end := start.Add(time.Duration(10+rand.Intn(120)) * time.Second)

	project := &models.Project{
		PID:        uuid.NewString(),
		Name:       gofakeit.ProductName(),
		OwnerUUID:  tenant,
		CleanType:  "default",
		Status:     models.StatusSuccess,
		CreateTime: created,
		StartTime:  &start,
		EndTime:    &end,
	}
	if err := db.Create(project).Error; err != nil {
		return err
	}

	var parents []string
	for i := 0; i < numComments; i++ {
		c := fakeComment(project.PID, created)
		// Roughly a third of rows reply to an earlier top-level comment.
		if len(parents) > 0 && rand.Intn(3) == 0 {
			c.ParentCID = parents[rand.Intn(len(parents))]
			c.Kind = models.KindReply
		} else {
			parents = append(parents, c.CID)
		}
		if err := db.Create(c).Error; err != nil {
			return err
		}

		if c.CleanStatus == models.CleanStatusCleaned && rand.Intn(2) == 0 {
			sentiment := &models.Sentiment{
				SID:             uuid.NewString(),
				CID:             c.CID,
				PID:             project.PID,
				Label:           rand.Intn(3) - 1,
				ConfidenceScore: 0.5 + rand.Float64()/2,
				AnalysisTime:    c.CommentTime.Add(time.Hour),
			}
			if err := db.Create(sentiment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func fakeComment(pid string, after time.Time) *models.Comment {
	status := models.CleanStatusRaw
	if rand.Intn(2) == 0 {
		status = models.CleanStatusCleaned
	}
	content := sampleComments[rand.Intn(len(sampleComments))]
	if rand.Intn(4) == 0 {
		content = gofakeit.Sentence(6)
	}
	return &models.Comment{
		CID:         uuid.NewString(),
		PID:         pid,
		Kind:        models.KindTopLevel,
		Content:     content,
		Username:    gofakeit.Username(),
		CommentTime: gofakeit.DateRange(after, time.Now()),
		LikeCount:   rand.Intn(500),
		ReplyCount:  rand.Intn(20),
		CleanStatus: status,
	}
}
