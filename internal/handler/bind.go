package handler

import (
	"fmt"

	"mydev-wallet/internal/handler/response"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
)

// bindJSON 绑定失败时直接写回 ErrBind 并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, fmt.Errorf("%w: %s", errno.ErrBind, validator.GetErrorMsg(err)))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, fmt.Errorf("%w: %s", errno.ErrBind, validator.GetErrorMsg(err)))
		return false
	}
	return true
}
