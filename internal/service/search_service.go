package service

import (
	"context"
	"strings"

	"commentpulse/internal/models"
	"commentpulse/internal/search"
)

// SearchService answers tenant-scoped comment queries against the index.
type SearchService struct {
	index search.Indexer
}

// SearchInput mirrors the query surface exposed to clients. Zero values mean
// "no condition"; OwnerUUID is the only mandatory field.
type SearchInput struct {
	OwnerUUID string
	Keyword   string
	Username  string
	Sentiment *int
	StartTime string
	EndTime   string
	MinLike   int
	MaxLike   int
	Page      int
	Size      int
}

// SearchHit is one result row with the keyword highlighted in the content.
type SearchHit struct {
	CID            string `json:"cid"`
	PID            string `json:"pid"`
	Content        string `json:"content_clean"`
	Username       string `json:"username"`
	LikeCount      int    `json:"like_count"`
	SentimentLabel int    `json:"sentiment_label"`
	CommentTime    string `json:"comment_time"`
}

// SearchResult is a page of hits plus the total match count.
type SearchResult struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Hits  []SearchHit `json:"hits"`
}

func NewSearchService(index search.Indexer) *SearchService {
	return &SearchService{index: index}
}

// Search runs the filter against the index and highlights keyword matches.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if in.OwnerUUID == "" {
		return nil, models.NewValidationError("tenant is required")
	}

	filter := &search.Filter{
		OwnerUUID: in.OwnerUUID,
		Keyword:   strings.TrimSpace(in.Keyword),
		Username:  strings.TrimSpace(in.Username),
		Sentiment: in.Sentiment,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		MinLike:   in.MinLike,
		MaxLike:   in.MaxLike,
		Page:      in.Page,
		Size:      in.Size,
	}

	total, docs, err := s.index.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Total: total,
		Page:  filter.Page,
		Size:  filter.Limit(),
		Hits:  make([]SearchHit, 0, len(docs)),
	}
	for _, doc := range docs {
		result.Hits = append(result.Hits, SearchHit{
			CID:            doc.CID,
			PID:            doc.PID,
			Content:        Highlight(doc.ContentClean, filter.Keyword),
			Username:       doc.Username,
			LikeCount:      doc.LikeCount,
			SentimentLabel: doc.SentimentLabel,
			CommentTime:    doc.CommentTime,
		})
	}
	return result, nil
}

// Highlight wraps every literal, case-sensitive occurrence of keyword in
// <em> markers. An empty keyword returns the content untouched.
func Highlight(content, keyword string) string {
	if keyword == "" || content == "" {
		return content
	}
	return strings.ReplaceAll(content, keyword, "<em>"+keyword+"</em>")
}
