package models

import (
	"time"
)

// Sentiment labels as produced by the analysis worker.
const (
	SentimentNegative = -1
	SentimentNeutral  = 0
	SentimentPositive = 1
)

// Sentiment is one scored comment. Rows are written exclusively by the
// external analysis worker; the pipeline only reads them when building index
// documents and read projections.
type Sentiment struct {
	SID             string    `gorm:"column:sid;primaryKey;size:50" json:"-"`
	CID             string    `gorm:"column:cid;size:50;not null;uniqueIndex" json:"cid"`
	PID             string    `gorm:"column:pid;size:50;not null;index" json:"pid"`
	Label           int       `gorm:"column:sentiment_label" json:"sentiment_label"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	AnalysisTime    time.Time `gorm:"column:analysis_time;not null" json:"analysis_time"`
}
