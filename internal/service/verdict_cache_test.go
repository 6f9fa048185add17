package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-labs/veritas/internal/model"
)

func TestClaimKeyNormalizes(t *testing.T) {
	assert.Equal(t, ClaimKey("The Moon is made of cheese"), ClaimKey("  the moon IS made\tof cheese "))
	assert.NotEqual(t, ClaimKey("the moon is made of cheese"), ClaimKey("the sun is made of cheese"))
	assert.Len(t, ClaimKey("x"), 16)
}

func TestMemoryVerdictCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryVerdictCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	resp := model.InformationResponse{Classification: model.Fake, Reason: "r"}
	require.NoError(t, cache.Set(ctx, "k", resp, time.Hour))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp, *got)

	now = now.Add(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = cache.Get(ctx, "missing")
	assert.False(t, ok)
}
