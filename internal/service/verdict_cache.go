package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"

	"github.com/veritas-labs/veritas/internal/factcheck"
	"github.com/veritas-labs/veritas/internal/model"
)

// VerdictCache holds verdicts of recently verified claims.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*model.InformationResponse, bool, error)
	Set(ctx context.Context, key string, resp model.InformationResponse, ttl time.Duration) error
}

// ClaimKey hashes the normalized claim so whitespace and case variants share
// one entry.
func ClaimKey(claim string) string {
	return fmt.Sprintf("%016x", xxhash.ChecksumString64(factcheck.Normalize(claim)))
}

type cachedVerdict struct {
	resp      model.InformationResponse
	expiresAt time.Time
}

// MemoryVerdictCache is used when Redis is not configured.
type MemoryVerdictCache struct {
	mu      sync.RWMutex
	entries map[string]cachedVerdict
	now     func() time.Time
}

func NewMemoryVerdictCache() *MemoryVerdictCache {
	return &MemoryVerdictCache{
		entries: make(map[string]cachedVerdict),
		now:     time.Now,
	}
}

func (c *MemoryVerdictCache) Get(_ context.Context, key string) (*model.InformationResponse, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	resp := entry.resp
	return &resp, true, nil
}

func (c *MemoryVerdictCache) Set(_ context.Context, key string, resp model.InformationResponse, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedVerdict{resp: resp, expiresAt: c.now().Add(ttl)}
	return nil
}
