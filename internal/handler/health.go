package handler

import (
	"mydev-wallet/internal/handler/response"
	"mydev-wallet/pkg/network"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// HealthCheck 存活检查，附带网络参数方便确认部署的是哪条链
func HealthCheck(c *gin.Context) {
	params := network.Params()
	response.Success(c, gin.H{
		"status":  "UP",
		"version": version,
		"service": "wallet-server",
		"network": params.Name,
		"coin":    params.HDCoinType,
	})
}
