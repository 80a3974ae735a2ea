// Package ingest turns uploaded tabular exports into normalized comment
// records and persists them with dedup and parent-ordering guarantees.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"commentpulse/internal/middleware"
	"commentpulse/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// RowError records a row that was skipped during parsing. Row is 1-based and
// counts data rows, excluding the header.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseResult carries the parsed records plus the per-row error accumulator.
// Row errors never fail the batch.
type ParseResult struct {
	Comments []*models.Comment
	Errors   []RowError
}

// CSV column order is positional and fixed.
const (
	colCID = iota
	colParentCID
	colKind
	colContent
	colTime
	colUsername
	colLikeCount
	colReplyCount
	csvFieldCount
)

// ParseFile dispatches on the uploaded file's extension. The extension comes
// from the original upload name, not the temp path.
func ParseFile(path, originalName string) (*ParseResult, error) {
	switch strings.ToLower(filepath.Ext(originalName)) {
	case ".xlsx", ".xls":
		return ParseXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseCSV(f)
	default:
		return nil, models.NewUnsupportedFormatError(originalName)
	}
}

// ParseCSV reads delimited text: the first line is a header and is discarded,
// each following record maps positionally to a comment. Records with fewer
// than 8 fields are skipped.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ParseResult{}
	row := 0
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if header {
				return nil, fmt.Errorf("reading csv header: %w", err)
			}
			row++
			result.Errors = append(result.Errors, RowError{Row: row, Reason: err.Error()})
			middleware.RowsSkipped.WithLabelValues("malformed").Inc()
			continue
		}
		if header {
			header = false
			continue
		}
		row++

		if len(record) < csvFieldCount {
			result.Errors = append(result.Errors, RowError{
				Row:    row,
				Reason: fmt.Sprintf("expected %d fields, got %d", csvFieldCount, len(record)),
			})
			middleware.RowsSkipped.WithLabelValues("short_row").Inc()
			continue
		}

		c := &models.Comment{
			CID:         strings.TrimSpace(record[colCID]),
			ParentCID:   strings.TrimSpace(record[colParentCID]),
			Kind:        parseIntSafe(record[colKind], 0),
			Content:     models.TruncateContent(strings.TrimSpace(record[colContent])),
			CommentTime: parseTimeSafe(record[colTime]),
			Username:    normalizeUsername(record[colUsername]),
			LikeCount:   parseIntSafe(record[colLikeCount], 0),
			ReplyCount:  parseIntSafe(record[colReplyCount], 0),
		}
		result.Comments = append(result.Comments, c)
	}
	return result, nil
}

// headerRules map header-cell substrings to logical columns. Reply columns are
// matched first so that e.g. "reply author" never binds to the top-level
// author column.
var (
	replyMarkers = []string{"二级", "reply"}

	replyRules = []headerRule{
		{field: "reply_username", match: []string{"评论人", "author"}},
		{field: "reply_time", match: []string{"评论时间", "time"}},
		{field: "reply_content", match: []string{"评论内容", "content"}},
		{field: "reply_like", match: []string{"点赞", "like"}},
	}
	topRules = []headerRule{
		{field: "username", match: []string{"评论人", "author"}},
		{field: "comment_time", match: []string{"评论时间", "time"}},
		{field: "content", match: []string{"评论内容", "content"}},
		{field: "like_count", match: []string{"点赞", "like"}},
	}
)

type headerRule struct {
	field string
	match []string
}

func mapHeader(cells []string) map[string]int {
	colIndex := make(map[string]int)
	for i, raw := range cells {
		title := strings.ToLower(strings.TrimSpace(raw))
		if title == "" {
			continue
		}
		rules := topRules
		if containsAny(title, replyMarkers) {
			rules = replyRules
		}
		for _, rule := range rules {
			if containsAny(title, rule.match) {
				if _, taken := colIndex[rule.field]; !taken {
					colIndex[rule.field] = i
				}
				break
			}
		}
	}
	return colIndex
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ParseXLSX reads a spreadsheet whose first row is pattern-matched against
// known header labels; column order is irrelevant. Every data row synthesizes
// a top-level comment and, when the reply author or content cell is non-empty,
// a child comment pointing at it.
func ParseXLSX(path string) (*ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &ParseResult{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	result := &ParseResult{}
	if len(rows) == 0 {
		return result, nil
	}

	colIndex := mapHeader(rows[0])
	middleware.Logger.Info("spreadsheet header mapped",
		"sheet", sheets[0], "columns", len(colIndex))

	for _, row := range rows[1:] {
		topCID := uuid.NewString()
		top := &models.Comment{
			CID:         topCID,
			Kind:        models.KindTopLevel,
			Content:     models.TruncateContent(cellAt(row, colIndex, "content")),
			Username:    normalizeUsername(cellAt(row, colIndex, "username")),
			CommentTime: parseTimeSafe(cellAt(row, colIndex, "comment_time")),
			LikeCount:   parseIntSafe(cellAt(row, colIndex, "like_count"), 0),
		}
		result.Comments = append(result.Comments, top)

		replyUser := cellAt(row, colIndex, "reply_username")
		replyContent := cellAt(row, colIndex, "reply_content")
		if replyUser == "" && replyContent == "" {
			continue
		}
		sub := &models.Comment{
			CID:         uuid.NewString(),
			ParentCID:   topCID,
			Kind:        models.KindReply,
			Content:     models.TruncateContent(replyContent),
			Username:    normalizeUsername(replyUser),
			CommentTime: parseTimeSafe(cellAt(row, colIndex, "reply_time")),
			LikeCount:   parseIntSafe(cellAt(row, colIndex, "reply_like"), 0),
		}
		result.Comments = append(result.Comments, sub)
	}
	return result, nil
}

func cellAt(row []string, colIndex map[string]int, field string) string {
	i, ok := colIndex[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeUsername(s string) string {
	name := strings.TrimSpace(s)
	if name == "" {
		return models.DefaultUsername
	}
	return models.TruncateUsername(name)
}

func parseIntSafe(s string, def int) int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return def
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// parseTimeSafe never fails a row: unparseable timestamps fall back to the
// ingestion time.
func parseTimeSafe(s string) time.Time {
	t, err := time.ParseInLocation(models.TimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}
