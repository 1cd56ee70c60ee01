package wallet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mydev-wallet/internal/relay"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"github.com/shopspring/decimal"
)

// Approval 交易类请求的确认结果，构造交易需要 UTXO 数据，由调用方完成
type Approval struct {
	Approved         bool            `json:"approved"`
	Address          string          `json:"address"`
	RecipientAddress string          `json:"recipientAddress,omitempty"`
	Amount           decimal.Decimal `json:"amount,omitempty"`
	Ticker           string          `json:"ticker,omitempty"`
	Location         string          `json:"location,omitempty"`
}

type relayHandlers struct {
	svc     Service
	account *Account
}

// RegisterRelay 为每种请求注册处理函数，签名使用 account 的私钥
func RegisterRelay(r *relay.Router, svc Service, account *Account) error {
	if account == nil || account.WIF == "" {
		return fmt.Errorf("%w: relay needs an unlocked account", errno.ErrInvalidKey)
	}
	h := &relayHandlers{svc: svc, account: account}

	handlers := map[relay.Kind]relay.Handler{
		relay.KindConnection:             h.connection,
		relay.KindTransaction:            h.transaction,
		relay.KindInscriptionTransaction: h.inscription,
		relay.KindDev20Transaction:       h.dev20,
		relay.KindDunesTransaction:       h.dunes,
		relay.KindPsbt:                   h.psbt,
		relay.KindSignedMessage:          h.signMessage,
		relay.KindDecryptedMessage:       h.decryptMessage,
	}
	for kind, fn := range handlers {
		if err := r.Handle(kind, fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *relayHandlers) connection(ctx context.Context, _ relay.Request) (interface{}, error) {
	return Approval{Approved: true, Address: h.account.Address}, nil
}

func (h *relayHandlers) transaction(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.TransactionRequest)
	amount, err := parseAmount(p.DevAmount)
	if err != nil {
		return nil, err
	}
	if err := h.checkRecipient(ctx, p.RecipientAddress); err != nil {
		return nil, err
	}
	if amount.LessThan(network.MinTxAmount) {
		return nil, fmt.Errorf("%w: below %s", errno.ErrInvalidAmount, network.MinTxAmount)
	}
	return Approval{
		Approved:         true,
		Address:          h.account.Address,
		RecipientAddress: p.RecipientAddress,
		Amount:           amount,
	}, nil
}

func (h *relayHandlers) inscription(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.InscriptionRequest)
	if err := h.checkRecipient(ctx, p.RecipientAddress); err != nil {
		return nil, err
	}
	if err := checkLocation(p.Location); err != nil {
		return nil, err
	}
	return Approval{
		Approved:         true,
		Address:          h.account.Address,
		RecipientAddress: p.RecipientAddress,
		Location:         p.Location,
	}, nil
}

func (h *relayHandlers) dev20(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.Dev20Request)
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return Approval{Approved: true, Address: h.account.Address, Ticker: p.Ticker, Amount: amount}, nil
}

func (h *relayHandlers) dunes(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.DunesRequest)
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.checkRecipient(ctx, p.RecipientAddress); err != nil {
		return nil, err
	}
	return Approval{
		Approved:         true,
		Address:          h.account.Address,
		RecipientAddress: p.RecipientAddress,
		Ticker:           p.Ticker,
		Amount:           amount,
	}, nil
}

func (h *relayHandlers) psbt(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.PsbtRequest)
	opts := signer.NewOptions(!p.SignOnly, p.Partial, p.SighashType)
	return h.svc.SignPsbt(ctx, p.RawTx, p.Indexes, h.account.WIF, opts)
}

func (h *relayHandlers) signMessage(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.SignedMessageRequest)
	sig, err := h.svc.SignMessage(ctx, p.Message, h.account.WIF)
	if err != nil {
		return nil, err
	}
	return map[string]string{"signedMessage": sig}, nil
}

func (h *relayHandlers) decryptMessage(ctx context.Context, req relay.Request) (interface{}, error) {
	p := req.Payload.(relay.DecryptedMessageRequest)
	plain, err := h.svc.DecryptMessage(ctx, h.account.WIF, p.Message)
	if err != nil {
		return nil, err
	}
	return map[string]string{"decryptedMessage": plain}, nil
}

func (h *relayHandlers) checkRecipient(ctx context.Context, addr string) error {
	if err := h.svc.ValidateAddress(ctx, addr); err != nil {
		return err
	}
	if strings.TrimSpace(addr) == h.account.Address {
		return errno.ErrSelfSendRejected
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errno.ErrInvalidAmount
	}
	return amount, nil
}

// checkLocation txid:vout:offset
func checkLocation(loc string) error {
	parts := strings.Split(loc, ":")
	if len(parts) != 3 || len(parts[0]) != 64 {
		return fmt.Errorf("%w: location %q", errno.ErrInvalidRequest, loc)
	}
	for _, n := range parts[1:] {
		if _, err := strconv.ParseUint(n, 10, 32); err != nil {
			return fmt.Errorf("%w: location %q", errno.ErrInvalidRequest, loc)
		}
	}
	return nil
}
