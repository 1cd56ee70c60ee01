// Package spent 记录已签名交易花掉的 UTXO，避免在交易确认前被重复选用。
package spent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mydev-wallet/pkg/cache"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/signer"
	"mydev-wallet/pkg/utils/lock"

	"go.uber.org/zap"
)

const (
	// Key 存储中的 key
	Key = "@mydev_SPENT_UTXOS_CACHE"

	// PendingWindow 交易广播后等待确认的时间，超过后记录可以清理
	PendingWindow = 2 * time.Minute

	lockTTL   = 10 * time.Second
	lockRetry = 50 * time.Millisecond
)

// SpentOutput 一条已花费记录，Timestamp 为毫秒
type SpentOutput struct {
	TxID      string `json:"txid"`
	Vout      uint32 `json:"vout"`
	Timestamp int64  `json:"timestamp"`
}

type Cache struct {
	store cache.Store
	lock  lock.DistributedLock
	log   *zap.Logger
	now   func() time.Time

	mu sync.Mutex
}

type Option func(*Cache)

// WithLock 多实例共享同一个存储时使用分布式锁
func WithLock(l lock.DistributedLock) Option {
	return func(c *Cache) { c.lock = l }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store cache.Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheSignedInputs 把已签名交易的每个输入追加到列表末尾，不去重
func (c *Cache) CacheSignedInputs(ctx context.Context, signedTxHex string) ([]SpentOutput, error) {
	tx, err := signer.DecodeRawTx(signedTxHex)
	if err != nil {
		return nil, err
	}

	ts := c.now().UnixMilli()
	added := make([]SpentOutput, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		added = append(added, SpentOutput{
			TxID:      in.PreviousOutPoint.Hash.String(),
			Vout:      in.PreviousOutPoint.Index,
			Timestamp: ts,
		})
	}

	err = c.update(ctx, func(list []SpentOutput) []SpentOutput {
		return append(list, added...)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("spent outputs cached",
		zap.String("txid", tx.TxHash().String()),
		zap.Int("inputs", len(added)),
	)
	return added, nil
}

// List 按写入顺序返回全部记录
func (c *Cache) List(ctx context.Context) ([]SpentOutput, error) {
	return c.load(ctx)
}

func (c *Cache) IsSpent(ctx context.Context, txid string, vout uint32) (bool, error) {
	list, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	for _, o := range list {
		if o.TxID == txid && o.Vout == vout {
			return true, nil
		}
	}
	return false, nil
}

// Prune 删除早于 olderThan 的记录，返回删除条数
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := c.now().Add(-olderThan).UnixMilli()
	removed := 0
	err := c.update(ctx, func(list []SpentOutput) []SpentOutput {
		kept := list[:0]
		for _, o := range list {
			if o.Timestamp < cutoff {
				removed++
				continue
			}
			kept = append(kept, o)
		}
		return kept
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.log.Debug("spent outputs pruned", zap.Int("removed", removed))
	}
	return removed, nil
}

// update 在进程锁 (以及可选的分布式锁) 内完成读-改-写
func (c *Cache) update(ctx context.Context, fn func([]SpentOutput) []SpentOutput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lock != nil {
		if err := lock.AcquireWait(ctx, c.lock, Key, lockTTL, lockRetry); err != nil {
			return fmt.Errorf("%w: acquire lock: %v", errno.ErrStorage, err)
		}
		defer func() {
			if err := c.lock.Release(context.WithoutCancel(ctx), Key); err != nil {
				c.log.Warn("release spent cache lock", zap.Error(err))
			}
		}()
	}

	list, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, Key, fn(list)); err != nil {
		return fmt.Errorf("%w: %v", errno.ErrStorage, err)
	}
	return nil
}

func (c *Cache) load(ctx context.Context) ([]SpentOutput, error) {
	var list []SpentOutput
	err := c.store.Get(ctx, Key, &list)
	if errors.Is(err, cache.ErrCacheMiss) {
		return []SpentOutput{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrStorage, err)
	}
	return list, nil
}
