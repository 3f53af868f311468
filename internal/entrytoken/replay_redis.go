package entrytoken

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReplayKeyPrefix namespaces consumed signatures in a shared Redis.
const DefaultReplayKeyPrefix = "gym:entry:consumed:"

// RedisReplayGuard shares consumed signatures between scanner instances.
// Redis key expiry takes the place of sweeping.
type RedisReplayGuard struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisReplayGuard wraps an existing client.
func NewRedisReplayGuard(client redis.Cmdable, prefix string, now func() time.Time) *RedisReplayGuard {
	if prefix == "" {
		prefix = DefaultReplayKeyPrefix
	}
	if now == nil {
		now = time.Now
	}
	return &RedisReplayGuard{client: client, prefix: prefix, now: now}
}

// Contains implements ReplayGuard.
func (g *RedisReplayGuard) Contains(ctx context.Context, signature string) (bool, error) {
	n, err := g.client.Exists(ctx, g.prefix+signature).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkConsumed implements ReplayGuard with SET NX so only one instance wins.
func (g *RedisReplayGuard) MarkConsumed(ctx context.Context, signature string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(g.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return g.client.SetNX(ctx, g.prefix+signature, 1, ttl).Result()
}
