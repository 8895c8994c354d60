package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocker_DefaultTTL(t *testing.T) {
	l := NewLocker(nil, 0)
	assert.Equal(t, 30*time.Second, l.ttl)

	l = NewLocker(nil, 5*time.Second)
	assert.Equal(t, 5*time.Second, l.ttl)
}

func TestLockKeyFor(t *testing.T) {
	assert.Equal(t, "notes:upload-lock:Tema 1*Lengua.pdf", lockKeyFor("Tema 1*Lengua.pdf"))
}

func TestLock_RedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	l := NewLocker(client, time.Second)
	unlock, err := l.Lock(context.Background(), "a*Lengua.pdf")
	require.Error(t, err)
	assert.Nil(t, unlock)
	assert.NotErrorIs(t, err, domain.ErrUploadInProgress)
}

func newTestLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLocker(client, ttl), mr
}

func TestLock_ConflictAndRelease(t *testing.T) {
	l, mr := newTestLocker(t, time.Minute)
	ctx := context.Background()
	key := "Tema 1*Lengua.pdf"

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, unlock)
	assert.True(t, mr.Exists(lockKeyFor(key)))

	second, err := l.Lock(ctx, key)
	assert.ErrorIs(t, err, domain.ErrUploadInProgress)
	assert.Nil(t, second)

	other, err := l.Lock(ctx, "Tema 2*Lengua.pdf")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(lockKeyFor(key)))

	third, err := l.Lock(ctx, key)
	require.NoError(t, err)
	require.NoError(t, third(ctx))
}

func TestLock_ExpiresAfterTTL(t *testing.T) {
	l, mr := newTestLocker(t, 5*time.Second)
	ctx := context.Background()
	key := "Tema 1*Lengua.pdf"

	_, err := l.Lock(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, mr.TTL(lockKeyFor(key)))

	mr.FastForward(6 * time.Second)

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLock_StaleUnlockKeepsNewHolder(t *testing.T) {
	l, mr := newTestLocker(t, 5*time.Second)
	ctx := context.Background()
	key := "Tema 1*Lengua.pdf"

	staleUnlock, err := l.Lock(ctx, key)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)
	require.False(t, mr.Exists(lockKeyFor(key)))

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)
	holder, err := mr.Get(lockKeyFor(key))
	require.NoError(t, err)

	require.NoError(t, staleUnlock(ctx))

	current, err := mr.Get(lockKeyFor(key))
	require.NoError(t, err)
	assert.Equal(t, holder, current)

	_, err = l.Lock(ctx, key)
	assert.ErrorIs(t, err, domain.ErrUploadInProgress)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(lockKeyFor(key)))
}
