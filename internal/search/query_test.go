package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterQueryTenantScopeOnly(t *testing.T) {
	f := &Filter{OwnerUUID: "abc-123"}

	q := f.Query()

	assert.Equal(t, `@uuid:{abc\-123}`, q)
}

func TestFilterQueryAllConditions(t *testing.T) {
	label := 1
	f := &Filter{
		OwnerUUID: "u1",
		Keyword:   "great",
		Username:  "alice",
		Sentiment: &label,
		MinLike:   5,
		StartTime: "2024-01-01 00:00:00",
		EndTime:   "2024-12-31 23:59:59",
	}

	q := f.Query()

	assert.Contains(t, q, "@uuid:{u1}")
	assert.Contains(t, q, "@content_clean:(great)")
	assert.Contains(t, q, "@username:*alice*")
	assert.Contains(t, q, "@sentiment_label:[1 1]")
	assert.Contains(t, q, "@like_count:[5 +inf]")
	assert.Contains(t, q, "@comment_ts:[")
}

func TestFilterQueryLikeBoundsOnlyWhenPositive(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		want    string
		noRange bool
	}{
		{name: "both zero", min: 0, max: 0, noRange: true},
		{name: "negative ignored", min: -3, max: -1, noRange: true},
		{name: "min only", min: 5, max: 0, want: "@like_count:[5 +inf]"},
		{name: "max only", min: 0, max: 10, want: "@like_count:[-inf 10]"},
		{name: "both", min: 2, max: 8, want: "@like_count:[2 8]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Filter{OwnerUUID: "u1", MinLike: tt.min, MaxLike: tt.max}
			q := f.Query()
			if tt.noRange {
				assert.NotContains(t, q, "@like_count")
			} else {
				assert.Contains(t, q, tt.want)
			}
		})
	}
}

func TestFilterQueryTimeRangeUsesEpochSeconds(t *testing.T) {
	f := &Filter{OwnerUUID: "u1", StartTime: "2024-06-01 12:00:00"}

	want, err := time.ParseInLocation("2006-01-02 15:04:05", "2024-06-01 12:00:00", time.Local)
	assert.NoError(t, err)
	assert.Contains(t, f.Query(), fmt.Sprintf("@comment_ts:[%d +inf]", want.Unix()))
}

func TestFilterQueryBareDateBound(t *testing.T) {
	f := &Filter{OwnerUUID: "u1", EndTime: "2024-06-01"}

	q := f.Query()

	assert.Contains(t, q, "@comment_ts:[-inf ")
}

func TestFilterQueryUnparseableTimeIgnored(t *testing.T) {
	f := &Filter{OwnerUUID: "u1", StartTime: "not-a-date"}

	assert.NotContains(t, f.Query(), "@comment_ts")
}

func TestFilterPagination(t *testing.T) {
	f := &Filter{Page: 2, Size: 20}
	assert.Equal(t, 40, f.Offset())
	assert.Equal(t, 20, f.Limit())

	defaulted := &Filter{Page: 1, Size: 0}
	assert.Equal(t, DefaultPageSize, defaulted.Limit())
	assert.Equal(t, DefaultPageSize, defaulted.Offset())

	negative := &Filter{Page: -1, Size: 10}
	assert.Equal(t, 0, negative.Offset())
}

func TestEscapeTag(t *testing.T) {
	assert.Equal(t, `a\-b\.c`, escapeTag("a-b.c"))
	assert.Equal(t, "plain", escapeTag("plain"))
}

func TestFilterQueryEscapesUserSuppliedWildcards(t *testing.T) {
	f := &Filter{OwnerUUID: "u1", Keyword: "a*b?c", Username: "bo*b"}

	q := f.Query()

	assert.Contains(t, q, `@content_clean:(a\*b\?c)`)
	// Only the surrounding infix wildcards stay live.
	assert.Contains(t, q, `@username:*bo\*b*`)
}
