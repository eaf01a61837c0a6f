package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const windowLayout = "2006010215"

// RedisLock marks a user's delivery window as taken so overlapping runs do
// not send the same issue twice.
type RedisLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLock(rdb *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{rdb: rdb, ttl: ttl}
}

// Acquire returns true the first time it is called for a user and UTC hour.
// Redis errors are returned to the caller, which decides whether to proceed.
func (l *RedisLock) Acquire(ctx context.Context, userID string, window time.Time) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, Key(userID, window), 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire delivery lock: %w", err)
	}
	return ok, nil
}

func Key(userID string, window time.Time) string {
	return fmt.Sprintf("delivery:%s:%s", userID, window.UTC().Format(windowLayout))
}
