package main

import (
	"context"
	"fmt"
	"time"

	"mydev-wallet/internal/service/mq"
	"mydev-wallet/pkg/cache"
	"mydev-wallet/pkg/config"
	"mydev-wallet/pkg/database"
	"mydev-wallet/pkg/logger"
	"mydev-wallet/pkg/utils/lock"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	storePrefix    = "wallet:"
	streamMaxLen   = 10000
	consumerGroup  = "wallet_signed_audit"
	consumerName   = "wallet-server-0"
	localCacheTTL  = 30 * time.Second
	localCacheScan = time.Minute
)

// infra 按配置选择存储后端与消息队列
type infra struct {
	store    cache.Store
	lock     lock.DistributedLock
	producer mq.Producer
	consumer mq.Consumer

	rdb    *redis.Client
	db     *gorm.DB
	closer []func() error
}

func newInfra(ctx context.Context, cfg config.Config) (*infra, error) {
	in := &infra{}

	needRedis := cfg.Wallet.StoreBackend == "redis" || cfg.Redis.MQType == "redis"
	if needRedis {
		rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("Redis 连接失败: %w", err)
		}
		in.rdb = rdb
		in.closer = append(in.closer, rdb.Close)
	}

	switch cfg.Wallet.StoreBackend {
	case "redis":
		// 多实例共享，由分布式锁保证读-改-写
		in.store = cache.NewRedisStore(in.rdb, storePrefix, 0)
		in.lock = lock.NewRedisLock(in.rdb)
	case "postgres":
		db, err := database.ConnectPostgres(database.PostgresDSN(cfg.DB), cfg.App.Env == "development")
		if err != nil {
			return nil, err
		}
		gormStore := cache.NewGormStore(db)
		if cfg.App.Env == "development" {
			logger.Info("开发环境: 自动迁移 kv_entries (GORM AutoMigrate)")
			if err := gormStore.AutoMigrate(); err != nil {
				return nil, fmt.Errorf("数据库自动迁移失败: %w", err)
			}
		} else {
			logger.Info("生产环境: 跳过 AutoMigrate，请使用 cmd/migrate 管理 Schema")
		}
		in.db = db
		if sqlDB, err := db.DB(); err == nil {
			in.closer = append(in.closer, sqlDB.Close)
		}
		// 单实例部署: 本地缓存 + 数据库
		in.store = cache.NewMultiLevelStore(cache.NewMemoryStore(localCacheTTL, localCacheScan), gormStore, logger.Named("store"))
	case "memory", "":
		in.store = cache.NewMemoryStore(0, localCacheScan)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Wallet.StoreBackend)
	}

	switch cfg.Redis.MQType {
	case "kafka":
		logger.Info("使用 Kafka 作为消息队列...")
		producer := mq.NewKafkaProducer(cfg.Kafka.Brokers)
		in.producer = producer
		in.consumer = mq.NewKafkaConsumer(cfg.Kafka.Brokers, consumerGroup)
		in.closer = append(in.closer, producer.Close, in.consumer.Close)
	case "redis":
		logger.Info("使用 Redis Streams 作为消息队列...")
		in.producer = mq.NewRedisProducer(in.rdb, streamMaxLen)
		in.consumer = mq.NewRedisConsumer(in.rdb, consumerGroup, consumerName)
		in.closer = append(in.closer, in.consumer.Close)
	default:
		logger.Info("未配置消息队列，签名事件不会发布")
		in.producer = mq.NopProducer{}
	}

	logger.Info("存储后端", zap.String("backend", cfg.Wallet.StoreBackend))
	return in, nil
}

// Close 逆序释放资源
func (in *infra) Close() {
	for i := len(in.closer) - 1; i >= 0; i-- {
		if err := in.closer[i](); err != nil {
			logger.Warn("关闭资源失败", zap.Error(err))
		}
	}
}
