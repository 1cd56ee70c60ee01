package handler

import (
	"mydev-wallet/internal/handler/request"
	"mydev-wallet/internal/handler/response"
	"mydev-wallet/internal/service/wallet"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc wallet.Service
}

func NewMessageHandler(svc wallet.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Sign
// @Router /api/v1/message/sign [post]
func (h *MessageHandler) Sign(c *gin.Context) {
	var req request.SignMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	sig, err := h.svc.SignMessage(c.Request.Context(), req.Message, req.WIF)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"signature": sig})
}

// Verify
// @Router /api/v1/message/verify [post]
func (h *MessageHandler) Verify(c *gin.Context) {
	var req request.VerifyMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.VerifyMessage(c.Request.Context(), req.Message, req.Address, req.Signature); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

// Encrypt
// @Router /api/v1/message/encrypt [post]
func (h *MessageHandler) Encrypt(c *gin.Context) {
	var req request.EncryptMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	payload, err := h.svc.EncryptMessage(c.Request.Context(), req.PublicKey, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"payload": payload})
}

// Decrypt
// @Router /api/v1/message/decrypt [post]
func (h *MessageHandler) Decrypt(c *gin.Context) {
	var req request.DecryptMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	plain, err := h.svc.DecryptMessage(c.Request.Context(), req.WIF, req.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": plain})
}
