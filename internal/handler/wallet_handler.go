package handler

import (
	"mydev-wallet/internal/handler/request"
	"mydev-wallet/internal/handler/response"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/signer"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	svc wallet.Service
}

func NewWalletHandler(svc wallet.Service) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// SignTransaction 完整签名原始交易
// @Router /api/v1/tx/sign [post]
func (h *WalletHandler) SignTransaction(c *gin.Context) {
	var req request.SignTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.svc.SignTransaction(c.Request.Context(), req.RawTx, req.Indexes, req.WIF)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// SignPsbt
// @Router /api/v1/psbt/sign [post]
func (h *WalletHandler) SignPsbt(c *gin.Context) {
	var req request.SignPsbtRequest
	if !bindJSON(c, &req) {
		return
	}
	opts := signer.NewOptions(!req.SignOnly, req.Partial, req.SighashType)
	res, err := h.svc.SignPsbt(c.Request.Context(), req.RawPsbt, req.Indexes, req.WIF, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"raw_tx": res.RawTx,
		"fee":    res.FeeCoins(),
		"amount": res.AmountCoins(),
	})
}

// PsbtFee
// @Router /api/v1/psbt/fee [post]
func (h *WalletHandler) PsbtFee(c *gin.Context) {
	var req request.PsbtFeeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.PsbtFee(c.Request.Context(), req.RawPsbt)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"fee": res.FeeCoins()})
}

// DecodeTransaction
// @Router /api/v1/tx/decode [post]
func (h *WalletHandler) DecodeTransaction(c *gin.Context) {
	var req request.DecodeTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, err := h.svc.DecodeTransaction(c.Request.Context(), req.RawTx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

// ValidateTransaction 发送前的校验，不签名
// @Router /api/v1/tx/validate [post]
func (h *WalletHandler) ValidateTransaction(c *gin.Context) {
	var req request.ValidateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.svc.ValidateTransaction(c.Request.Context(), signer.TxRequest{
		SenderAddress:    req.SenderAddress,
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount,
		Balance:          req.Balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

// ValidateAddress
// @Router /api/v1/address/validate [post]
func (h *WalletHandler) ValidateAddress(c *gin.Context) {
	var req request.ValidateAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ValidateAddress(c.Request.Context(), req.Address); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

// GenerateAddress 派生账户地址，私钥不返回
// @Router /api/v1/address [post]
func (h *WalletHandler) GenerateAddress(c *gin.Context) {
	var req request.GenerateAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	acct, err := h.svc.GenerateAddress(c.Request.Context(), req.Index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, acct)
}

// SpentOutputs 已签名但可能尚未确认的输入；带 txid 与 vout 时只查询这一个输出
// @Router /api/v1/utxo/spent [get]
func (h *WalletHandler) SpentOutputs(c *gin.Context) {
	var q request.SpentOutputQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.TxID != "" {
		spent, err := h.svc.IsSpent(c.Request.Context(), q.TxID, q.Vout)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"txid": q.TxID, "vout": q.Vout, "spent": spent})
		return
	}

	list, err := h.svc.SpentOutputs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"outputs": list})
}
