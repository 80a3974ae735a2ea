// Package search maintains the RediSearch mirror of persisted comments and
// builds structured queries against it. The index is a derived, rebuildable
// follower of the primary store; the synchronizer is its only writer.
package search

import (
	"strconv"
)

// Index field names. The document is keyed by comment id; every resync
// overwrites the whole hash (upsert semantics).
const (
	FieldCID            = "cid"
	FieldContentClean   = "content_clean"
	FieldUsername       = "username"
	FieldLikeCount      = "like_count"
	FieldSentimentLabel = "sentiment_label"
	FieldCommentTime    = "comment_time"
	FieldCommentTS      = "comment_ts"
	FieldPID            = "pid"
	FieldUUID           = "uuid"
)

// DocPrefix is the hash key prefix the index is built over.
const DocPrefix = "comment:"

// Document is the searchable projection of a comment joined with its
// sentiment label and owning tenant.
type Document struct {
	CID            string `json:"cid"`
	ContentClean   string `json:"content_clean"`
	Username       string `json:"username"`
	LikeCount      int    `json:"like_count"`
	SentimentLabel int    `json:"sentiment_label"`
	// CommentTime is the display form ("2006-01-02 15:04:05", fractional
	// seconds stripped); CommentTS carries the same instant as epoch seconds
	// for range filtering.
	CommentTime string `json:"comment_time"`
	CommentTS   int64  `json:"-"`
	PID         string `json:"pid"`
	UUID        string `json:"uuid"`
}

// Key returns the hash key the document is stored under.
func (d *Document) Key() string {
	return DocPrefix + d.CID
}

// Fields flattens the document into the hash field map written to the index.
func (d *Document) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldCID:            d.CID,
		FieldContentClean:   d.ContentClean,
		FieldUsername:       d.Username,
		FieldLikeCount:      d.LikeCount,
		FieldSentimentLabel: d.SentimentLabel,
		FieldCommentTime:    d.CommentTime,
		FieldCommentTS:      d.CommentTS,
		FieldPID:            d.PID,
		FieldUUID:           d.UUID,
	}
}

// DocumentFromFields rebuilds a document from a search hit's field map.
func DocumentFromFields(fields map[string]string) Document {
	likeCount, _ := strconv.Atoi(fields[FieldLikeCount])
	label, _ := strconv.Atoi(fields[FieldSentimentLabel])
	ts, _ := strconv.ParseInt(fields[FieldCommentTS], 10, 64)
	return Document{
		CID:            fields[FieldCID],
		ContentClean:   fields[FieldContentClean],
		Username:       fields[FieldUsername],
		LikeCount:      likeCount,
		SentimentLabel: label,
		CommentTime:    fields[FieldCommentTime],
		CommentTS:      ts,
		PID:            fields[FieldPID],
		UUID:           fields[FieldUUID],
	}
}
