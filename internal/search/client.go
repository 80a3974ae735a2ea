package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"commentpulse/internal/config"
	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
)

// Indexer is the write-and-query surface the synchronizer and search service
// depend on. *Client is the production implementation.
type Indexer interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, doc *Document) error
	Search(ctx context.Context, filter *Filter) (int64, []Document, error)
	Ping(ctx context.Context) error
}

// Client maintains the comment index on a Redis instance with the RediSearch
// module loaded.
type Client struct {
	rdb       *redis.Client
	indexName string
	timeout   time.Duration
}

// NewClient connects to the search Redis from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.SearchRedisURL,
			Password: cfg.SearchRedisPassword,
		}),
		indexName: cfg.SearchIndexName,
		timeout:   cfg.SearchTimeout(),
	}
}

// NewClientWithRedis wraps an existing connection. Intended for tests with
// miniredis.
func NewClientWithRedis(rdb *redis.Client, indexName string, timeout time.Duration) *Client {
	return &Client{rdb: rdb, indexName: indexName, timeout: timeout}
}

// Ping verifies the search backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// EnsureIndex creates the comment index if it does not already exist. The
// schema is fixed; schema changes require a drop-and-resync.
func (c *Client) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.rdb.FTCreate(ctx, c.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{DocPrefix},
		},
		&redis.FieldSchema{FieldName: FieldUUID, FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: FieldPID, FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: FieldCID, FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: FieldContentClean, FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: FieldUsername, FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: FieldSentimentLabel, FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: FieldLikeCount, FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: FieldCommentTS, FieldType: redis.SearchFieldTypeNumeric, Sortable: true},
	).Err()
	if err != nil && strings.Contains(err.Error(), "Index already exists") {
		return nil
	}
	if err != nil {
		return models.NewSearchUnavailableError(fmt.Errorf("creating index %s: %w", c.indexName, err))
	}
	return nil
}

// Upsert writes the document hash. An existing hash for the same comment is
// overwritten field by field, which makes resyncs idempotent.
func (c *Client) Upsert(ctx context.Context, doc *Document) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.HSet(ctx, doc.Key(), doc.Fields()).Err(); err != nil {
		middleware.IndexWriteFailures.Inc()
		return fmt.Errorf("indexing %s: %w", doc.Key(), err)
	}
	return nil
}

// Search executes the filter and returns the total hit count alongside the
// requested page of documents, newest first.
func (c *Client) Search(ctx context.Context, filter *Filter) (int64, []Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.rdb.FTSearchWithArgs(ctx, c.indexName, filter.Query(), searchOptions(filter)).Result()
	if err != nil {
		return 0, nil, models.NewSearchUnavailableError(err)
	}

	docs := make([]Document, 0, len(res.Docs))
	for _, hit := range res.Docs {
		docs = append(docs, DocumentFromFields(hit.Fields))
	}
	return int64(res.Total), docs, nil
}

// searchOptions maps a filter onto the query execution options. Dialect 2 is
// required: the username clause uses infix wildcards, which dialect 1 rejects
// as a syntax error.
func searchOptions(f *Filter) *redis.FTSearchOptions {
	return &redis.FTSearchOptions{
		SortBy:         []redis.FTSearchSortBy{{FieldName: FieldCommentTS, Desc: true}},
		LimitOffset:    f.Offset(),
		Limit:          f.Limit(),
		DialectVersion: 2,
	}
}
