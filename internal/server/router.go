package server

import (
	"mydev-wallet/internal/handler"
	"mydev-wallet/internal/handler/response"
	"mydev-wallet/internal/relay"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/monitor"
	"mydev-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mydev-wallet/docs/swagger"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine，relayRouter 为 nil 时不注册 relay 路由
func NewHTTPRouter(svc wallet.Service, relayRouter *relay.Router) *gin.Engine {
	// 0. 初始化监控指标与校验规则
	monitor.Init()
	validator.Init()

	// 1. 创建 Engine
	r := gin.New()
	r.Use(gin.Recovery())

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		walletHandler := handler.NewWalletHandler(svc)
		tx := api.Group("/tx")
		tx.POST("/sign", walletHandler.SignTransaction)
		tx.POST("/decode", walletHandler.DecodeTransaction)
		tx.POST("/validate", walletHandler.ValidateTransaction)

		psbt := api.Group("/psbt")
		psbt.POST("/sign", walletHandler.SignPsbt)
		psbt.POST("/fee", walletHandler.PsbtFee)

		api.POST("/address", walletHandler.GenerateAddress)
		api.POST("/address/validate", walletHandler.ValidateAddress)
		api.GET("/utxo/spent", walletHandler.SpentOutputs)

		msgHandler := handler.NewMessageHandler(svc)
		msg := api.Group("/message")
		msg.POST("/sign", msgHandler.Sign)
		msg.POST("/verify", msgHandler.Verify)
		msg.POST("/encrypt", msgHandler.Encrypt)
		msg.POST("/decrypt", msgHandler.Decrypt)

		if relayRouter != nil {
			relayHandler := handler.NewRelayHandler(relayRouter)
			api.POST("/relay", relayHandler.Submit)
			api.GET("/relay/state", relayHandler.State)
		}
	}

	return r
}
