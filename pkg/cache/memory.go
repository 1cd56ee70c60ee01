package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewMemoryStore ttl 为 0 表示永不过期
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{
		c:   gocache.New(ttl, cleanupInterval),
		ttl: ttl,
	}
}

// Set 保存 JSON 字节而不是对象本身，调用方之后修改 value 不会影响缓存内容
func (m *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.c.Set(key, b, m.ttl)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string, target interface{}) error {
	val, found := m.c.Get(key)
	if !found {
		return ErrCacheMiss
	}
	return json.Unmarshal(val.([]byte), target)
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
