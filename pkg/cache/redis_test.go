package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)

	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	rc, err := NewRedisCache(
		WithRedisHost(srv.Host()),
		WithRedisPort(port),
		WithRedisPrefix("test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestRedisCacheRoundTrip(t *testing.T) {
	rc := newTestRedis(t)
	ctx := context.Background()

	in := payload{Name: "mortgage_rate", Value: 5.25}
	require.NoError(t, rc.Set(ctx, "k", in, time.Minute))

	var out payload
	require.NoError(t, rc.Get(ctx, "k", &out))
	assert.Equal(t, in, out)
}

func TestRedisCacheMiss(t *testing.T) {
	rc := newTestRedis(t)

	var out payload
	assert.ErrorIs(t, rc.Get(context.Background(), "absent", &out), ErrCacheMiss)
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	rc := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", "v", time.Minute))

	// stored under the wrapped key, not the bare one
	keys, err := rc.Client().Keys(ctx, "*").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"test:k"}, keys)
}

func TestRedisCacheDeleteAndExists(t *testing.T) {
	rc := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "a", "1", time.Minute))
	ok, err := rc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, rc.Delete(ctx, "a"))
	ok, err = rc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayeredCacheReadsThrough(t *testing.T) {
	srv := miniredis.RunT(t)
	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	rc, err := NewRedisCache(
		WithRedisHost(srv.Host()),
		WithRedisPort(port),
		WithRedisPrefix("test"),
	)
	require.NoError(t, err)

	lc := NewLayeredCache(rc)
	defer lc.Close()
	ctx := context.Background()

	in := payload{Name: "inflation_rate", Value: 2.8}
	require.NoError(t, lc.Set(ctx, "k", in, time.Minute))

	// drop L1 so the read has to come from Redis and repopulate memory
	require.NoError(t, lc.memCache.Delete(ctx, "k"))

	var out payload
	require.NoError(t, lc.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	var fromMem payload
	require.NoError(t, lc.memCache.Get(ctx, "k", &fromMem))
	assert.Equal(t, in, fromMem)
}
