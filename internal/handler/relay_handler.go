package handler

import (
	"fmt"

	"mydev-wallet/internal/handler/request"
	"mydev-wallet/internal/handler/response"
	"mydev-wallet/internal/relay"
	"mydev-wallet/pkg/errno"

	"github.com/gin-gonic/gin"
)

type RelayHandler struct {
	router *relay.Router
}

func NewRelayHandler(router *relay.Router) *RelayHandler {
	return &RelayHandler{router: router}
}

// Submit 排队等待处理，返回对应的响应消息
// @Router /api/v1/relay [post]
func (h *RelayHandler) Submit(c *gin.Context) {
	var req request.RelayRequest
	if !bindJSON(c, &req) {
		return
	}
	kind, ok := relay.ParseKind(req.Type)
	if !ok {
		response.Error(c, fmt.Errorf("%w: unknown type %q", errno.ErrInvalidRequest, req.Type))
		return
	}
	payload, err := relay.DecodePayload(kind, req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	submitted, ch, err := h.router.Submit(ctx, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	select {
	case resp := <-ch:
		if resp.Err != nil {
			response.Error(c, resp.Err)
			return
		}
		response.Success(c, gin.H{"id": resp.ID, "type": resp.Type, "data": resp.Data})
	case <-ctx.Done():
		response.Error(c, fmt.Errorf("%w: request %s abandoned", errno.ErrRequestRejected, submitted.ID))
	}
}

// State 路由器当前状态
// @Router /api/v1/relay/state [get]
func (h *RelayHandler) State(c *gin.Context) {
	out := gin.H{"pending": h.router.Pending(), "state": "idle"}
	if p, ok := h.router.State().(relay.Processing); ok {
		out["state"] = "processing"
		out["request_id"] = p.Request.ID
		out["type"] = p.Request.Kind().String()
	}
	response.Success(c, out)
}
