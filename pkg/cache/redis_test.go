package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	_, hit, err := c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "layout:a", []byte("diagram"), time.Minute))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"layout:a"))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"layout:a"))

	data, hit, err := c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "diagram", string(data))

	mr.FastForward(2 * time.Minute)
	_, hit, err = c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire")

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"k"))
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, mr.Set("other:key", "keep"))
	for _, k := range []string{"a", "b"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:key"), "keys outside the prefix must survive")
}

func TestRedisCachePrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}), WithRedisPrefix("test:"))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("test:k"))
}

func TestNewRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()

	_, err = NewRedisCache(ctx, "not a url")
	assert.Error(t, err)
}

func TestNewRedisCacheUnavailable(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), "redis://"+addr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
