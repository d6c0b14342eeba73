package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	var out map[string]int
	found, err := GetCache(ctx, rdb, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "stats:user:1:a", map[string]int{"x": 1}, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "stats:user:1:b", map[string]int{"x": 2}, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "stats:user:2:a", map[string]int{"x": 3}, time.Minute))

	found, err = GetCache(ctx, rdb, "stats:user:1:a", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, out["x"])

	require.NoError(t, DeleteCachePattern(ctx, rdb, "stats:user:1:*"))
	assert.False(t, mr.Exists("stats:user:1:a"))
	assert.False(t, mr.Exists("stats:user:1:b"))
	assert.True(t, mr.Exists("stats:user:2:a"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("stats:user:2:a"))
}

func TestCacheNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var out any
	found, err := GetCache(ctx, nil, "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Second))
	assert.NoError(t, DeleteCachePattern(ctx, nil, "*"))
}
