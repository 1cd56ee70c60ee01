package spent

import (
	"context"
	"testing"
	"time"

	"mydev-wallet/pkg/cache"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrunerRun(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	c := New(cache.NewMemoryStore(0, time.Minute), WithClock(func() time.Time { return now }))

	old, _ := txSpending(t, wire.OutPoint{Hash: chainhash.Hash{0x0a}, Index: 0})
	_, err := c.CacheSignedInputs(ctx, old)
	require.NoError(t, err)

	now = now.Add(PendingWindow + time.Second)
	fresh, _ := txSpending(t, wire.OutPoint{Hash: chainhash.Hash{0x0b}, Index: 1})
	_, err = c.CacheSignedInputs(ctx, fresh)
	require.NoError(t, err)

	p := NewPruner(c, nil)
	p.run()

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, chainhash.Hash{0x0b}.String(), list[0].TxID)
}

func TestPrunerStartStop(t *testing.T) {
	p := NewPruner(New(cache.NewMemoryStore(0, time.Minute)), nil)
	assert.Error(t, p.Start("not a schedule"))

	require.NoError(t, p.Start(""))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)
}
