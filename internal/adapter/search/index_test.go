package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

func unreachableIndex(t *testing.T) *Index {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.SearchConfig{
		KeyPrefix:               "iati",
		BreakerMaxRequests:      1,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          time.Minute,
		BreakerFailureThreshold: 0.5,
		BreakerMinRequests:      2,
	}
	return NewIndex(slog.New(slog.DiscardHandler), client, cfg)
}

func TestIndex_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	idx := unreachableIndex(t)
	ctx := context.Background()

	for range 2 {
		err := idx.Ping(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrIndexUnavailable)
	}

	assert.Equal(t, "open", idx.State())

	err := idx.Index(ctx, domain.SearchDocument{Kind: domain.SearchKindActivity, ID: uuid.New(), Title: "water"})
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	_, err = idx.Search(ctx, domain.SearchKindActivity, "water", 10)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	err = idx.Delete(ctx, domain.SearchKindActivity, uuid.New())
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestIndex_Search_EmptyQuery(t *testing.T) {
	t.Parallel()

	idx := unreachableIndex(t)

	docs, err := idx.Search(context.Background(), domain.SearchKindActivity, " -- ", 10)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, "closed", idx.State())
}

func TestIndex_Keys(t *testing.T) {
	t.Parallel()

	idx := unreachableIndex(t)

	assert.Equal(t, "iati:doc:activity:42", idx.docKey(domain.SearchKindActivity, "42"))
	assert.Equal(t, "iati:idx:publisher:water", idx.tokenKey(domain.SearchKindPublisher, "water"))
	assert.Equal(t, "iati:terms:activity:42", idx.termsKey(domain.SearchKindActivity, "42"))
}

func TestNewClient_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.RedisConfig{URL: "http://not-redis"})

	assert.Error(t, err)
}
