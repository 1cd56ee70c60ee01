package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis 不可用 (%s): %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLock(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	key := "test-spent-cache"
	t.Cleanup(func() { client.Del(ctx, "lock:"+key) })

	a := NewRedisLock(client)
	b := NewRedisLock(client)

	ok, err := a.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "第二个实例不应拿到锁")

	assert.ErrorIs(t, b.Release(ctx, key), ErrNotHeld)
	require.NoError(t, a.Release(ctx, key))

	ok, err = b.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Release(ctx, key))
}

func TestAcquireWaitTimeout(t *testing.T) {
	client := newTestRedis(t)
	key := "test-wait"
	t.Cleanup(func() { client.Del(context.Background(), "lock:"+key) })

	holder := NewRedisLock(client)
	ok, err := holder.Acquire(context.Background(), key, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = AcquireWait(ctx, NewRedisLock(client), key, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
