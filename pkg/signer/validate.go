package signer

import (
	"fmt"
	"strings"

	"mydev-wallet/pkg/address"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/network"

	"github.com/shopspring/decimal"
)

// TxRequest 发送前需要校验的参数
type TxRequest struct {
	SenderAddress    string
	RecipientAddress string
	Amount           decimal.Decimal // 展示单位
	Balance          int64           // 最小单位
}

// ValidateTransaction 在构造或签名交易之前校验请求，按顺序返回第一个失败项:
// 地址无效、发给自己、金额无效、余额不足。
func (s *Signer) ValidateTransaction(req TxRequest) error {
	if err := address.NewGenerator(s.params).Validate(req.RecipientAddress); err != nil {
		return err
	}
	if strings.TrimSpace(req.SenderAddress) == strings.TrimSpace(req.RecipientAddress) {
		return errno.ErrSelfSendRejected
	}
	if !req.Amount.IsPositive() || req.Amount.LessThan(network.MinTxAmount) {
		return fmt.Errorf("%w: %s", errno.ErrInvalidAmount, req.Amount)
	}
	if req.Amount.GreaterThan(network.ToCoins(req.Balance)) {
		return errno.ErrInsufficientBalance
	}
	return nil
}
