package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/app/policies"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "", nil), mr
}

func TestSetGetAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	key := policies.SummaryKey("E1", "2024-05-30")

	require.NoError(t, c.Set(ctx, key, []byte(`{"a":1}`), 15*time.Minute))
	assert.True(t, mr.Exists("availability:summary_E1_2024-05-30"))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))

	mr.FastForward(14 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestInvalidateDropsOnlyThatEnabler(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	require.NoError(t, c.Set(ctx, policies.NextKey("E1"), []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, policies.SummaryKey("E1", "2024-06-01"), []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, policies.NextKey("E12"), []byte("3"), time.Minute))

	require.NoError(t, c.Invalidate(ctx, "E1"))
	_, ok := c.Get(ctx, policies.NextKey("E1"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, policies.SummaryKey("E1", "2024-06-01"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, policies.NextKey("E12"))
	assert.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, "unknown"))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	require.NoError(t, mr.Set("other", "keep"))
	require.NoError(t, c.Set(ctx, policies.NextKey("E1"), []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, policies.NextKey("E2"), []byte("2"), time.Minute))

	require.NoError(t, c.Clear(ctx))
	_, ok := c.Get(ctx, policies.NextKey("E2"))
	assert.False(t, ok)
	assert.True(t, mr.Exists("other"))
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	_, ok := c.Get(context.Background(), policies.NextKey("E1"))
	assert.False(t, ok)
}
