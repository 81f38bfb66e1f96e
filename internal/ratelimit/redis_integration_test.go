//go:build integration

package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterFixedWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiter(client, "ud-test", Rule{Window: 2 * time.Second, MaxRequests: 2})
	ctx := context.Background()
	key := uuid.NewString()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 3, d.Count)
	assert.True(t, d.ResetAt.After(time.Now()))

	time.Sleep(2100 * time.Millisecond)
	d, err = limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
