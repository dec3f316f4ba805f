package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idem:callback:"

// RedisGuard is a Guard backed by Redis. SetNX with a TTL gives the atomic
// "insert if absent with server-side expiry" the claim step requires, so it
// is safe across horizontally scaled instances.
type RedisGuard struct {
	client *redis.Client
}

// NewRedisGuard creates a new RedisGuard.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// TryClaim atomically claims the key for ttl.
func (g *RedisGuard) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

var _ Guard = (*RedisGuard)(nil)
