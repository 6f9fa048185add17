package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/model"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisVerdictCache stores claim verdicts as JSON under <prefix>:verdict:<key>.
type RedisVerdictCache struct {
	client *redis.Client
	prefix string
}

func NewRedisVerdictCache(client *redis.Client, prefix string) *RedisVerdictCache {
	if prefix == "" {
		prefix = "veritas"
	}
	return &RedisVerdictCache{client: client, prefix: prefix}
}

func (c *RedisVerdictCache) key(k string) string {
	return fmt.Sprintf("%s:verdict:%s", c.prefix, k)
}

func (c *RedisVerdictCache) Get(ctx context.Context, key string) (*model.InformationResponse, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp model.InformationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisVerdictCache) Set(ctx context.Context, key string, resp model.InformationResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}
