package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), DataSourceRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, DataSourceRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), DataSourceRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCache_GetOrSetBytes_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	calls := 0

	for i := 0; i < 2; i++ {
		data, err := cache.GetOrSetBytes(context.Background(), DatasetKey("file"), TTLShort, func() ([]byte, error) {
			calls++
			return []byte("[]"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}
	assert.Equal(t, 2, calls, "disabled cache never stores")

	_, err := cache.GetOrSetBytes(context.Background(), "k", TTLShort, func() ([]byte, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "dataset:http", DatasetKey("http"))
}
