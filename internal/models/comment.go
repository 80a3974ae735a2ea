// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Clean status values for a comment row. Raw rows come straight from the
// uploaded file; cleaned rows are produced by the cleaning worker.
const (
	CleanStatusRaw     = "raw"
	CleanStatusCleaned = "cleaned"
)

// Comment kind values: top-level thread entries vs. replies.
const (
	KindTopLevel = 0
	KindReply    = 1
)

// DefaultUsername is used when the source row has no author cell.
const DefaultUsername = "unknown"

// TimeLayout is the canonical timestamp format used across the pipeline:
// ingestion parsing, worker previews and index documents all share it.
const TimeLayout = "2006-01-02 15:04:05"

// Truncation limits applied on ingestion (measured in runes).
const (
	MaxContentLen  = 255
	MaxUsernameLen = 50
)

// Comment represents one entry of an ingested comment thread.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CID         string    `gorm:"column:cid;size:50;not null;uniqueIndex:idx_comments_pid_cid,priority:2" json:"cid"`
	PID         string    `gorm:"column:pid;size:50;not null;index;uniqueIndex:idx_comments_pid_cid,priority:1" json:"pid"`
	ParentCID   string    `gorm:"column:parent_cid;size:50" json:"parent_cid,omitempty"`
	Content     string    `gorm:"size:255" json:"content"`
	Username    string    `gorm:"size:50" json:"username"`
	CommentTime time.Time `gorm:"column:comment_time" json:"comment_time"`
	LikeCount   int       `gorm:"default:0" json:"like_count"`
	ReplyCount  int       `gorm:"default:0" json:"reply_count"`
	Kind        int       `gorm:"column:comment_type;not null;default:0" json:"comment_type"`
	CleanStatus string    `gorm:"size:20;not null;index" json:"clean_status"`
	Abnormal    bool      `gorm:"not null;default:false" json:"abnormal"`
}

// IsTopLevel reports whether the comment is a root node of its thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentCID == ""
}

// CommentWithSentiment is the read projection joining a comment to its
// sentiment score for the project detail view. Sentiment fields are nil when
// the worker has not scored the comment yet.
type CommentWithSentiment struct {
	CID             string   `json:"cid"`
	PID             string   `json:"pid"`
	ParentCID       string   `json:"parent_cid,omitempty"`
	Username        string   `json:"username"`
	Content         string   `json:"content"`
	CommentTime     string   `json:"comment_time"`
	LikeCount       int      `json:"like_count"`
	ReplyCount      int      `json:"reply_count"`
	Kind            int      `json:"comment_type"`
	SentimentLabel  *int     `json:"sentiment_label,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// TruncateContent clamps s to MaxContentLen runes.
func TruncateContent(s string) string {
	return truncateRunes(s, MaxContentLen)
}

// TruncateUsername clamps s to MaxUsernameLen runes.
func TruncateUsername(s string) string {
	return truncateRunes(s, MaxUsernameLen)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
