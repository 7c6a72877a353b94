package cache

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls   atomic.Int64
	blocked bool
	err     error
}

func (s *stubSource) IsBlocked(ctx context.Context, cardNumber string) (bool, error) {
	s.calls.Add(1)
	return s.blocked, s.err
}

// setupTestRedis connects to the local Redis instance. Tests are skipped
// when it is unreachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/1"
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	require.NoError(t, client.FlushDB(context.Background()).Err())

	t.Cleanup(func() { client.Close() })
	return client
}

func TestIsBlockedReadThrough(t *testing.T) {
	client := setupTestRedis(t)
	source := &stubSource{blocked: true}
	cache := NewBlocklistCache(client, source, time.Minute)
	ctx := context.Background()

	blocked, err := cache.IsBlocked(ctx, "4111111111111111")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, int64(1), source.calls.Load())

	// Second lookup is served from the cache.
	blocked, err = cache.IsBlocked(ctx, "4111111111111111")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, int64(1), source.calls.Load())
}

func TestIsBlockedCachesNegativeAnswers(t *testing.T) {
	client := setupTestRedis(t)
	source := &stubSource{blocked: false}
	cache := NewBlocklistCache(client, source, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := cache.IsBlocked(ctx, "5555555555554444")
		require.NoError(t, err)
		assert.False(t, blocked)
	}
	assert.Equal(t, int64(1), source.calls.Load())
}

func TestMarkBlockedOverridesCachedNegative(t *testing.T) {
	client := setupTestRedis(t)
	source := &stubSource{blocked: false}
	cache := NewBlocklistCache(client, source, time.Minute)
	ctx := context.Background()

	blocked, err := cache.IsBlocked(ctx, "4111111111111111")
	require.NoError(t, err)
	require.False(t, blocked)

	cache.MarkBlocked(ctx, "4111111111111111")

	blocked, err = cache.IsBlocked(ctx, "4111111111111111")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, int64(1), source.calls.Load())
}

func TestIsBlockedPropagatesSourceError(t *testing.T) {
	client := setupTestRedis(t)
	source := &stubSource{err: errors.New("connection refused")}
	cache := NewBlocklistCache(client, source, time.Minute)

	_, err := cache.IsBlocked(context.Background(), "4111111111111111")
	require.Error(t, err)
}

func TestCacheKeyNeverContainsCardNumber(t *testing.T) {
	key := cacheKey("4111111111111111")
	assert.NotContains(t, key, "4111111111111111")
	assert.Contains(t, key, "blocklist:")
}
