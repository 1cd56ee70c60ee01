package spent

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPruneSpec 每分钟清理一次
const DefaultPruneSpec = "@every 1m"

// Pruner 定时清理超过 PendingWindow 的记录。
// 多实例共享存储时，Cache 自带的分布式锁保证读-改-写不会交错。
type Pruner struct {
	cron  *cron.Cron
	cache *Cache
	log   *zap.Logger
	after time.Duration
}

func NewPruner(c *Cache, log *zap.Logger) *Pruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pruner{
		cron:  cron.New(),
		cache: c,
		log:   log,
		after: PendingWindow,
	}
}

// Start 注册任务并启动调度，spec 为空时使用 DefaultPruneSpec
func (p *Pruner) Start(spec string) error {
	if spec == "" {
		spec = DefaultPruneSpec
	}
	if _, err := p.cron.AddFunc(spec, p.run); err != nil {
		return err
	}
	p.cron.Start()
	p.log.Info("spent cache pruner started", zap.String("spec", spec))
	return nil
}

// Stop 等待正在执行的任务结束
func (p *Pruner) Stop(ctx context.Context) {
	select {
	case <-p.cron.Stop().Done():
	case <-ctx.Done():
	}
	p.log.Info("spent cache pruner stopped")
}

func (p *Pruner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := p.cache.Prune(ctx, p.after)
	if err != nil {
		p.log.Error("prune spent outputs", zap.Error(err))
		return
	}
	if removed > 0 {
		p.log.Info("spent outputs pruned", zap.Int("removed", removed))
	}
}
