package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, time.Minute)

	var got []record
	assert.ErrorIs(t, s.Get(ctx, "k", &got), ErrCacheMiss)

	value := []record{{"aa", 0}, {"bb", 1}}
	require.NoError(t, s.Set(ctx, "k", value))

	// 修改原切片不影响已保存的值
	value[0].Vout = 99

	require.NoError(t, s.Get(ctx, "k", &got))
	assert.Equal(t, []record{{"aa", 0}, {"bb", 1}}, got)

	require.NoError(t, s.Delete(ctx, "k"))
	assert.ErrorIs(t, s.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20*time.Millisecond, time.Millisecond)

	require.NoError(t, s.Set(ctx, "k", 1))
	time.Sleep(50 * time.Millisecond)

	var v int
	assert.ErrorIs(t, s.Get(ctx, "k", &v), ErrCacheMiss)
}
