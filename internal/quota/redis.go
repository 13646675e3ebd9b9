package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// quotaKeyTTL keeps stale counters from accumulating; it only needs to outlive
// the day the counter belongs to.
const quotaKeyTTL = 48 * time.Hour

// RedisCommands is the slice of the redis client the gate needs.
// Satisfied by *redis.Client.
type RedisCommands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisGate counts requests with INCR, which is atomic per key.
type RedisGate struct {
	Client RedisCommands
	Limit  int
	Loc    *time.Location
	Logger *zap.Logger
}

func (g *RedisGate) Allow(ctx context.Context, origin string) error {
	key := fmt.Sprintf("quota:%s:%s", origin, DayKey(time.Now(), g.Loc))

	count, err := g.Client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("quota incr: %w", err)
	}
	if count == 1 {
		// A failed EXPIRE leaves the counter keyed forever; the request still
		// counts, so only log it.
		if err := g.Client.Expire(ctx, key, quotaKeyTTL).Err(); err != nil && g.Logger != nil {
			g.Logger.Warn("quota key expire failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	if count > int64(g.Limit) {
		return ErrDailyLimit
	}
	return nil
}
