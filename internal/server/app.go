package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mydev-wallet/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	HttpPort string
	// GrpcPort 为空时不启动 gRPC
	GrpcPort string
}

// App 同时托管 HTTP 与 gRPC，任意一个退出都会触发整体关闭
type App struct {
	httpServer   *http.Server
	httpListener net.Listener
	grpcServer   *grpc.Server
	grpcListener net.Listener

	onShutdown []func(ctx context.Context)
}

// New 先占用端口，端口冲突在启动阶段就报错
func New(cfg Config, httpHandler http.Handler, grpcServer *grpc.Server) (*App, error) {
	httpLis, err := net.Listen("tcp", ":"+cfg.HttpPort)
	if err != nil {
		return nil, fmt.Errorf("listen http %s: %w", cfg.HttpPort, err)
	}
	app := &App{
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		httpListener: httpLis,
	}

	if grpcServer != nil && cfg.GrpcPort != "" {
		grpcLis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
		if err != nil {
			_ = httpLis.Close()
			return nil, fmt.Errorf("listen grpc %s: %w", cfg.GrpcPort, err)
		}
		app.grpcServer = grpcServer
		app.grpcListener = grpcLis
	}
	return app, nil
}

// HTTPAddr 实际监听地址，端口为 0 时由系统分配
func (a *App) HTTPAddr() string { return a.httpListener.Addr().String() }

// OnShutdown 注册关闭回调，服务停止后按注册顺序执行
func (a *App) OnShutdown(fn func(ctx context.Context)) {
	a.onShutdown = append(a.onShutdown, fn)
}

// Run 阻塞直到 ctx 结束或某个服务异常退出，然后优雅关闭
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", a.HTTPAddr()))
		if err := a.httpServer.Serve(a.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.grpcServer != nil {
		g.Go(func() error {
			logger.Info("grpc server listening", zap.String("addr", a.grpcListener.Addr().String()))
			if err := a.grpcServer.Serve(a.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		a.shutdown()
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("http server forced to shutdown", zap.Error(err))
	}
	if a.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			a.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			a.grpcServer.Stop()
		}
	}
	for _, fn := range a.onShutdown {
		fn(ctx)
	}
	logger.Info("servers stopped")
}
