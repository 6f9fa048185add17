package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/veritas-labs/veritas/internal/model"
)

const DriverRedis = "redis"

// RedisAuditRepo keeps the newest listMax audit records in a capped list.
// Ids of the retained records are tracked in a set so a repeated id is never
// written twice; ids fall out of the set together with their records.
type RedisAuditRepo struct {
	client   *redis.Client
	listKey  string
	idsKey   string
	orderKey string
	listMax  int64
}

func NewRedisAuditRepo(client *redis.Client, prefix string, listMax int64) *RedisAuditRepo {
	if prefix == "" {
		prefix = "veritas"
	}
	if listMax <= 0 {
		listMax = 10000
	}
	return &RedisAuditRepo{
		client:   client,
		listKey:  prefix + ":auditing",
		idsKey:   prefix + ":auditing:ids",
		orderKey: prefix + ":auditing:order",
		listMax:  listMax,
	}
}

// insertScript claims the id only after both pushes succeed, so a failed
// write leaves nothing behind and a retry writes the record.
//
// KEYS: list, ids set, id order list. ARGV: id, payload, listMax.
var insertScript = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[2], ARGV[1]) == 1 then
	return 0
end
redis.call('LPUSH', KEYS[1], ARGV[2])
redis.call('LPUSH', KEYS[3], ARGV[1])
local max = tonumber(ARGV[3])
local evicted = redis.call('LRANGE', KEYS[3], max, -1)
for _, id in ipairs(evicted) do
	redis.call('SREM', KEYS[2], id)
end
redis.call('LTRIM', KEYS[1], 0, max - 1)
redis.call('LTRIM', KEYS[3], 0, max - 1)
redis.call('SADD', KEYS[2], ARGV[1])
return 1
`)

func (r *RedisAuditRepo) Insert(ctx context.Context, rec *model.AuditRecord) error {
	if rec == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	keys := []string{r.listKey, r.idsKey, r.orderKey}
	return insertScript.Run(ctx, r.client, keys, rec.ID, payload, r.listMax).Err()
}

func (r *RedisAuditRepo) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error) {
	limit := filter.NormalizedLimit()
	fetch := max(int64(limit)*5, 100)
	fetch = min(fetch, r.listMax)

	items, err := r.client.LRange(ctx, r.listKey, 0, fetch-1).Result()
	if err != nil {
		return nil, err
	}
	results := make([]*model.AuditRecord, 0, limit)
	for _, item := range items {
		var rec model.AuditRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		if !filter.Match(&rec) {
			continue
		}
		results = append(results, &rec)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
