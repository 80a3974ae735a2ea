package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewClientWithRedis(rdb, "comment_index_test", 2*time.Second), mr
}

func TestClientPing(t *testing.T) {
	client, _ := setupTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

// miniredis has no FT.* support, so index writes are verified at the hash
// level; query execution is covered through the builder tests and service
// fakes.
func TestClientUpsertWritesHash(t *testing.T) {
	client, mr := setupTestClient(t)

	doc := &Document{
		CID:            "c1",
		ContentClean:   "cleaned text",
		Username:       "alice",
		LikeCount:      3,
		SentimentLabel: 1,
		CommentTime:    "2024-06-01 12:00:00",
		CommentTS:      1717243200,
		PID:            "p1",
		UUID:           "u1",
	}
	require.NoError(t, client.Upsert(context.Background(), doc))

	assert.Equal(t, "cleaned text", mr.HGet("comment:c1", FieldContentClean))
	assert.Equal(t, "alice", mr.HGet("comment:c1", FieldUsername))
	assert.Equal(t, "3", mr.HGet("comment:c1", FieldLikeCount))
	assert.Equal(t, "1", mr.HGet("comment:c1", FieldSentimentLabel))
	assert.Equal(t, "1717243200", mr.HGet("comment:c1", FieldCommentTS))
	assert.Equal(t, "u1", mr.HGet("comment:c1", FieldUUID))
}

func TestClientUpsertOverwrites(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	doc := &Document{CID: "c1", SentimentLabel: 0, UUID: "u1"}
	require.NoError(t, client.Upsert(ctx, doc))

	doc.SentimentLabel = -1
	require.NoError(t, client.Upsert(ctx, doc))

	assert.Equal(t, "-1", mr.HGet("comment:c1", FieldSentimentLabel))
}

// The username clause relies on infix wildcards, which only parse under query
// dialect 2; the default dialect rejects them outright.
func TestSearchOptionsUseDialect2(t *testing.T) {
	f := &Filter{OwnerUUID: "u1", Username: "bob", Page: 2, Size: 20}

	opts := searchOptions(f)

	assert.Equal(t, 2, opts.DialectVersion)
	assert.Equal(t, 40, opts.LimitOffset)
	assert.Equal(t, 20, opts.Limit)
	require.Len(t, opts.SortBy, 1)
	assert.Equal(t, FieldCommentTS, opts.SortBy[0].FieldName)
	assert.True(t, opts.SortBy[0].Desc)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		CID:            "c9",
		ContentClean:   "hello",
		Username:       "bob",
		LikeCount:      7,
		SentimentLabel: -1,
		CommentTime:    "2024-01-02 03:04:05",
		CommentTS:      1704164645,
		PID:            "p2",
		UUID:           "u2",
	}

	fields := make(map[string]string)
	for k, v := range doc.Fields() {
		fields[k] = fmt.Sprintf("%v", v)
	}

	got := DocumentFromFields(fields)
	assert.Equal(t, doc, got)
}
