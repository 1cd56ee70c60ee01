package response

import (
	"net/http"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response defines the standard JSON structure
// 业务错误同样返回 HTTP 200，由 code 区分
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error returns an error response.
// 没有业务错误码的错误 (10001) 会记录日志，请求体不记录。
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	if code == errno.InternalServerError.Code {
		logger.Error("unclassified request error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    gin.H{},
	})
}
