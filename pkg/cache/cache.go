package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss key 不存在
var ErrCacheMiss = errors.New("cache miss")

// Store 定义通用键值存储接口，值以 JSON 形式保存
type Store interface {
	// Get 获取值，并将结果 Unmarshal 到 target 中；不存在时返回 ErrCacheMiss
	Get(ctx context.Context, key string, target interface{}) error
	// Set 写入值，覆盖旧值
	Set(ctx context.Context, key string, value interface{}) error
	// Delete 删除 key，不存在时不报错
	Delete(ctx context.Context, key string) error
}
