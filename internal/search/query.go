package search

import (
	"fmt"
	"strings"
	"time"

	"commentpulse/internal/models"
)

// DefaultPageSize applies when the caller passes a non-positive size.
const DefaultPageSize = 100

// Filter is the typed, conjunctive search request. Tenant scope is mandatory;
// every other condition is optional. Serialization to the index's query
// syntax happens in exactly one place (Query) so the filter logic stays
// testable independent of transport.
type Filter struct {
	OwnerUUID string
	Keyword   string
	Username  string
	Sentiment *int
	// StartTime/EndTime are inclusive bounds in "2006-01-02 15:04:05" or
	// "2006-01-02" form.
	StartTime string
	EndTime   string
	// Like-count bounds apply only when explicitly positive.
	MinLike int
	MaxLike int
	// Page is zero-based.
	Page int
	Size int
}

// Limit returns the effective page size.
func (f *Filter) Limit() int {
	if f.Size <= 0 {
		return DefaultPageSize
	}
	return f.Size
}

// Offset returns page × size with negative pages clamped to zero.
func (f *Filter) Offset() int {
	page := f.Page
	if page < 0 {
		page = 0
	}
	return page * f.Limit()
}

// Query serializes the filter into a RediSearch query string. With no
// optional condition the query degrades to "everything within tenant scope",
// never an unscoped match-all.
func (f *Filter) Query() string {
	var clauses []string

	clauses = append(clauses, fmt.Sprintf("@%s:{%s}", FieldUUID, escapeTag(f.OwnerUUID)))

	if f.Keyword != "" {
		clauses = append(clauses, fmt.Sprintf("@%s:(%s)", FieldContentClean, escapeText(f.Keyword)))
	}
	if f.Username != "" {
		clauses = append(clauses, fmt.Sprintf("@%s:*%s*", FieldUsername, escapeText(f.Username)))
	}
	if f.Sentiment != nil {
		clauses = append(clauses, fmt.Sprintf("@%s:[%d %d]", FieldSentimentLabel, *f.Sentiment, *f.Sentiment))
	}

	if f.MinLike > 0 || f.MaxLike > 0 {
		lower, upper := "-inf", "+inf"
		if f.MinLike > 0 {
			lower = fmt.Sprintf("%d", f.MinLike)
		}
		if f.MaxLike > 0 {
			upper = fmt.Sprintf("%d", f.MaxLike)
		}
		clauses = append(clauses, fmt.Sprintf("@%s:[%s %s]", FieldLikeCount, lower, upper))
	}

	if f.StartTime != "" || f.EndTime != "" {
		lower, upper := "-inf", "+inf"
		if ts, ok := parseBound(f.StartTime); ok {
			lower = fmt.Sprintf("%d", ts)
		}
		if ts, ok := parseBound(f.EndTime); ok {
			upper = fmt.Sprintf("%d", ts)
		}
		if lower != "-inf" || upper != "+inf" {
			clauses = append(clauses, fmt.Sprintf("@%s:[%s %s]", FieldCommentTS, lower, upper))
		}
	}

	return strings.Join(clauses, " ")
}

// parseBound accepts a datetime or bare date and returns epoch seconds.
func parseBound(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if t, err := time.ParseInLocation(models.TimeLayout, s, time.Local); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Unix(), true
	}
	return 0, false
}

// escapeTag backslash-escapes punctuation inside a TAG value so uuids with
// dashes match literally.
func escapeTag(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*?()-+=~|/\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeText escapes query-syntax characters inside TEXT terms. Wildcards are
// escaped too: a * or ? typed by the user matches literally instead of
// widening the query.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*?()-+=~|/\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
