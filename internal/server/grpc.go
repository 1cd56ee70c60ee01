package server

import (
	"context"
	"time"

	handler_grpc "mydev-wallet/internal/handler/grpc"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// NewGRPCServer 初始化并注册 gRPC 服务
func NewGRPCServer(svc wallet.Service) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor))
	handler_grpc.RegisterSignerServer(s, handler_grpc.NewSignerHandler(svc))
	return s
}

// loggingInterceptor 只记录方法、耗时和状态码，不记录请求内容
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Info("[gRPC]",
		zap.String("method", info.FullMethod),
		zap.Duration("elapsed", time.Since(start)),
		zap.Stringer("code", status.Code(err)),
	)
	return resp, err
}
