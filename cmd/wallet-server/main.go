package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"mydev-wallet/internal/relay"
	"mydev-wallet/internal/server"
	"mydev-wallet/internal/service/spent"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/bip39"
	"mydev-wallet/pkg/config"
	"mydev-wallet/pkg/keystore"
	"mydev-wallet/pkg/logger"
	"mydev-wallet/pkg/monitor"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"go.uber.org/zap"
)

// @title Dogecoinev Wallet Signer API
// @version 1.0
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	// 2. 初始化监控指标
	monitor.Init()

	// SIGINT / SIGTERM 取消 ctx，后台任务与服务一起退出
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 3. 加载钱包 (keystore + 密码)
	seed, err := loadSeed(cfg.Wallet)
	if err != nil {
		logger.Fatal("钱包加载失败", zap.Error(err))
	}

	// 4. 存储 / 消息队列
	infra, err := newInfra(ctx, cfg)
	if err != nil {
		logger.Fatal("基础设施初始化失败", zap.Error(err))
	}

	spentOpts := []spent.Option{spent.WithLogger(logger.Named("spent"))}
	if infra.lock != nil {
		spentOpts = append(spentOpts, spent.WithLock(infra.lock))
	}
	spentCache := spent.New(infra.store, spentOpts...)

	// 5. 签名服务
	params := network.Params()
	svc, err := wallet.New(wallet.Deps{
		Params:   params,
		Signer:   signer.New(params, signer.WithLogger(logger.Named("signer")), signer.WithMaxFeeRate(cfg.Signer.MaxFeeRate)),
		Spent:    spentCache,
		Producer: infra.producer,
		Metrics:  monitor.Business,
		Log:      logger.Named("wallet"),
		Seed:     seed,
	})
	if err != nil {
		logger.Fatal("签名服务初始化失败", zap.Error(err))
	}

	account, err := svc.GenerateAddress(ctx, cfg.Wallet.AccountIndex)
	if err != nil {
		logger.Fatal("账户派生失败", zap.Error(err))
	}
	logger.Info("钱包已解锁",
		zap.String("address", account.Address),
		zap.String("path", account.Path),
	)

	// 6. Relay 路由器
	relayRouter := relay.NewRouter(
		relay.WithLogger(logger.Named("relay")),
		relay.WithObserver(func(kind relay.Kind, d time.Duration, err error) {
			monitor.Business.ObserveSign("relay_"+kind.String(), time.Now().Add(-d), err)
		}),
	)
	if err := wallet.RegisterRelay(relayRouter, svc, account); err != nil {
		logger.Fatal("Relay 注册失败", zap.Error(err))
	}
	go watchRelayQueue(ctx, relayRouter)

	// 7. 定时清理 spent-utxo 缓存
	pruner := spent.NewPruner(spentCache, logger.Named("pruner"))
	if err := pruner.Start(cfg.Signer.PruneSpec); err != nil {
		logger.Fatal("Pruner 启动失败", zap.Error(err))
	}

	// 8. 签名事件消费者
	if infra.consumer != nil {
		listener := wallet.NewEventListener(infra.consumer, monitor.Business, logger.Named("events"))
		go func() {
			if err := listener.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("事件消费者退出", zap.Error(err))
			}
		}()
	}

	// 9. HTTP / gRPC
	app, err := server.New(server.Config{
		HttpPort: cfg.App.HttpPort,
		GrpcPort: cfg.App.GrpcPort,
	}, server.NewHTTPRouter(svc, relayRouter), server.NewGRPCServer(svc))
	if err != nil {
		logger.Fatal("应用启动失败", zap.Error(err))
	}
	app.OnShutdown(func(context.Context) { relayRouter.Close() })
	app.OnShutdown(pruner.Stop)
	app.OnShutdown(func(context.Context) { cancel() })
	app.OnShutdown(func(context.Context) { infra.Close() })

	// 运行 (阻塞)
	if err := app.Run(ctx); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
	}
	logger.Info("系统已退出")
}

func loadSeed(c config.WalletConfig) ([]byte, error) {
	encrypted, err := keystore.LoadFromFile(c.KeystorePath)
	if err != nil {
		return nil, err
	}
	mnemonic, err := keystore.DecryptMnemonic(encrypted, c.Password)
	if err != nil {
		return nil, err
	}
	return bip39.NewMnemonicService().SeedFromPhrase(mnemonic)
}

// watchRelayQueue 定期上报排队深度
func watchRelayQueue(ctx context.Context, r *relay.Router) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			monitor.Business.SetRelayQueueDepth(r.Pending())
		}
	}
}
