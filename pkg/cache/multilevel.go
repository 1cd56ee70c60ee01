package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MultiLevelStore 实现多级缓存 (L1: Memory, L2: Redis / Postgres)
// L2 是权威数据源，L1 只是读缓存。
type MultiLevelStore struct {
	local  Store
	remote Store
	log    *zap.Logger
}

func NewMultiLevelStore(local, remote Store, log *zap.Logger) *MultiLevelStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &MultiLevelStore{local: local, remote: remote, log: log}
}

// Set 先写 L2，成功后再更新 L1
func (m *MultiLevelStore) Set(ctx context.Context, key string, value interface{}) error {
	if err := m.remote.Set(ctx, key, value); err != nil {
		// L1 可能持有旧值，直接淘汰
		_ = m.local.Delete(ctx, key)
		return err
	}
	if err := m.local.Set(ctx, key, value); err != nil {
		m.log.Warn("l1 set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (m *MultiLevelStore) Get(ctx context.Context, key string, target interface{}) error {
	// 1. 查 L1
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}

	// 2. 查 L2
	err := m.remote.Get(ctx, key, target)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			m.log.Warn("l2 get failed", zap.String("key", key), zap.Error(err))
		}
		return err
	}

	// L2 Hit -> 回写 L1
	_ = m.local.Set(ctx, key, target)
	return nil
}

func (m *MultiLevelStore) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}
