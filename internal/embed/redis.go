// File path: internal/embed/redis.go
package embed

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

// RedisCache is a hot tier in front of another Cache. Cache keys embed the
// content hash, so a content edit naturally misses and the stale entry ages
// out via TTL; no explicit invalidation is needed.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	next   Cache
}

// NewRedisCache wraps next with a Redis hot tier. A nil client or empty addr
// is not supported here; callers fall back to the plain store cache instead.
func NewRedisCache(client *redis.Client, ttl time.Duration, next Cache) *RedisCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, next: next}
}

func (c *RedisCache) Get(ctx context.Context, key Key) ([]float32, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err == nil {
		vector, decodeErr := decodeVector(raw)
		if decodeErr == nil && len(vector) > 0 {
			return vector, true
		}
		common.Logger().Warn("embed: discarding malformed redis entry", "id", key.ID, "error", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		common.Logger().Warn("embed: redis read failed", "id", key.ID, "error", err)
	}
	if c.next == nil {
		return nil, false
	}
	vector, ok := c.next.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if err := c.client.Set(ctx, redisKey(key), encodeVector(vector), c.ttl).Err(); err != nil {
		common.Logger().Warn("embed: redis backfill failed", "id", key.ID, "error", err)
	}
	return vector, true
}

func (c *RedisCache) Put(ctx context.Context, key Key, vector []float32) error {
	if c == nil || c.client == nil {
		return errors.New("embed: redis cache not initialised")
	}
	if err := c.client.Set(ctx, redisKey(key), encodeVector(vector), c.ttl).Err(); err != nil {
		common.Logger().Warn("embed: redis write failed", "id", key.ID, "error", err)
	}
	if c.next == nil {
		return nil
	}
	return c.next.Put(ctx, key, vector)
}

func redisKey(key Key) string {
	return fmt.Sprintf("skillbridge:emb:%s:%s:%s", key.Kind, key.ID, key.ContentHash)
}

func encodeVector(vector []float32) []byte {
	out := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("malformed vector payload of %d bytes", len(raw))
	}
	vector := make([]float32, len(raw)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vector, nil
}
