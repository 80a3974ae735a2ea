package repository

import (
	"context"

	"commentpulse/internal/models"

	"gorm.io/gorm"
)

// SentimentRepository defines read access to worker-produced sentiment scores.
type SentimentRepository interface {
	// LabelsByCIDs returns cid → label for every scored comment among cids.
	// Unscored comments are simply absent from the map.
	LabelsByCIDs(ctx context.Context, cids []string) (map[string]int, error)
	// Upsert writes a sentiment row, replacing any previous score for the
	// same cid. Used by the seed factory; production rows come from the worker.
	Upsert(ctx context.Context, sentiment *models.Sentiment) error
}

type sentimentRepository struct {
	db *gorm.DB
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(db *gorm.DB) SentimentRepository {
	return &sentimentRepository{db: db}
}

func (r *sentimentRepository) LabelsByCIDs(ctx context.Context, cids []string) (map[string]int, error) {
	labels := make(map[string]int, len(cids))
	if len(cids) == 0 {
		return labels, nil
	}

	type cidLabel struct {
		CID            string
		SentimentLabel int
	}
	// Chunked so a full resync of a large store does not build one huge IN list.
	const chunkSize = 500
	for start := 0; start < len(cids); start += chunkSize {
		end := start + chunkSize
		if end > len(cids) {
			end = len(cids)
		}
		var rows []cidLabel
		err := r.db.WithContext(ctx).
			Model(&models.Sentiment{}).
			Select("cid, sentiment_label").
			Where("cid IN ?", cids[start:end]).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			labels[row.CID] = row.SentimentLabel
		}
	}
	return labels, nil
}

func (r *sentimentRepository) Upsert(ctx context.Context, sentiment *models.Sentiment) error {
	result := r.db.WithContext(ctx).
		Model(&models.Sentiment{}).
		Where("cid = ?", sentiment.CID).
		Updates(map[string]interface{}{
			"sentiment_label":  sentiment.Label,
			"confidence_score": sentiment.ConfidenceScore,
			"analysis_time":    sentiment.AnalysisTime,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(sentiment).Error
	}
	return nil
}
