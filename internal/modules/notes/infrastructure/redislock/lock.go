package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notes:upload-lock:"

// releaseScript deletes the lock only while it still holds the caller's token,
// so an expired lock re-acquired by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short-lived per-key locks backed by Redis SET NX.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: client, ttl: ttl}
}

// Lock acquires the lock for a storage key. It returns
// domain.ErrUploadInProgress when the key is already locked.
func (l *Locker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	lockKey := lockKeyFor(key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire upload lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrUploadInProgress
	}

	unlock := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
			return fmt.Errorf("failed to release upload lock: %w", err)
		}
		return nil
	}
	return unlock, nil
}

func lockKeyFor(key string) string {
	return keyPrefix + key
}
