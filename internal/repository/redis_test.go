package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/model"
)

func TestNewRedisClient(t *testing.T) {
	mr, _ := newTestRedis(t)

	_, err := NewRedisClient(&config.Config{})
	assert.Error(t, err)

	cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr()}}
	client, err := NewRedisClient(cfg)
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(cfg)
	assert.Error(t, err)
}

func TestRedisVerdictCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	cache := NewRedisVerdictCache(client, "")

	resp, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, resp)

	want := model.InformationResponse{Classification: model.Fake, Reason: "contradicted by sources"}
	require.NoError(t, cache.Set(ctx, "abc", want, time.Minute))
	assert.True(t, mr.Exists("veritas:verdict:abc"))

	resp, ok, err = cache.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *resp)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisVerdictCacheCorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewRedisVerdictCache(client, "test")
	require.NoError(t, mr.Set("test:verdict:bad", "{not json"))

	_, ok, err := cache.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}
