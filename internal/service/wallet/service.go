package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"mydev-wallet/internal/event"
	"mydev-wallet/internal/service/mq"
	"mydev-wallet/internal/service/spent"
	"mydev-wallet/pkg/address"
	"mydev-wallet/pkg/bip32"
	"mydev-wallet/pkg/crypto_util"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/keys"
	"mydev-wallet/pkg/message"
	"mydev-wallet/pkg/monitor"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoSeed = errors.New("钱包未加载，无法派生地址")

// Deps 构造服务所需的依赖，Signer 与 Spent 必填
type Deps struct {
	Params   *chaincfg.Params
	Signer   *signer.Signer
	Spent    *spent.Cache
	Producer mq.Producer
	Metrics  *monitor.BusinessMetrics
	Log      *zap.Logger
	// Seed 钱包种子，只有 GenerateAddress 需要
	Seed []byte
}

type service struct {
	params   *chaincfg.Params
	signer   *signer.Signer
	messages *message.Signer
	addrs    *address.Generator
	spent    *spent.Cache
	producer mq.Producer
	metrics  *monitor.BusinessMetrics
	log      *zap.Logger
	hd       *bip32.Wallet
}

func New(deps Deps) (Service, error) {
	if deps.Signer == nil || deps.Spent == nil {
		return nil, errors.New("wallet service: signer and spent cache are required")
	}
	if deps.Params == nil {
		deps.Params = network.Params()
	}
	if deps.Producer == nil {
		deps.Producer = mq.NopProducer{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	s := &service{
		params:   deps.Params,
		signer:   deps.Signer,
		messages: message.NewSigner(deps.Params, network.MessagePrefix),
		addrs:    address.NewGenerator(deps.Params),
		spent:    deps.Spent,
		producer: deps.Producer,
		metrics:  deps.Metrics,
		log:      deps.Log,
	}
	if len(deps.Seed) > 0 {
		hd, err := bip32.NewMasterKeyFromSeed(deps.Seed, deps.Params)
		if err != nil {
			return nil, err
		}
		s.hd = hd
	}
	return s, nil
}

func (s *service) SignTransaction(ctx context.Context, rawTxHex string, indexes []int, wif string) (out *SignedTx, err error) {
	defer func(start time.Time) { s.metrics.ObserveSign("sign_tx", start, err) }(time.Now())

	signed, err := s.signer.SignFullTransaction(rawTxHex, indexes, wif)
	if err != nil {
		return nil, err
	}
	summary, err := s.signer.DecodeTransaction(signed)
	if err != nil {
		return nil, err
	}

	s.afterFullSign(ctx, signed, "raw", summary.TxID, network.ToCoins(summary.Total).String(), "")
	return &SignedTx{TxID: summary.TxID, RawTx: signed}, nil
}

func (s *service) SignPsbt(ctx context.Context, rawPsbtHex string, indexes []int, wif string, opts signer.Options) (res *signer.PsbtResult, err error) {
	defer func(start time.Time) { s.metrics.ObserveSign("sign_psbt", start, err) }(time.Now())

	res, err = s.signer.SignPsbt(rawPsbtHex, indexes, wif, opts)
	if err != nil {
		return nil, err
	}

	// 部分签名的结果仍是 PSBT，不代表输入已被花掉
	if !opts.Partial && res.RawTx != "" {
		tx, err := signer.DecodeRawTx(res.RawTx)
		if err != nil {
			return nil, err
		}
		s.afterFullSign(ctx, res.RawTx, "psbt", tx.TxHash().String(), res.AmountCoins().String(), res.FeeCoins().String())
	}
	return res, nil
}

// afterFullSign 记录已花费输入并发布事件。两者失败都只记日志，签名结果照常返回。
func (s *service) afterFullSign(ctx context.Context, signedHex, kind, txid, amount, fee string) {
	added, err := s.spent.CacheSignedInputs(ctx, signedHex)
	if err != nil {
		s.log.Error("cache spent outputs", zap.String("txid", txid), zap.Error(err))
	} else {
		s.metrics.AddSpentOutputs(len(added))
	}

	evt := event.TransactionSignedEvent{
		RequestID: uuid.NewString(),
		TxID:      txid,
		Kind:      kind,
		Inputs:    len(added),
		Amount:    amount,
		Fee:       fee,
		SignedAt:  time.Now().UTC(),
	}
	if err := mq.PublishJSON(ctx, s.producer, event.TopicTransactionSigned, txid, evt); err != nil {
		s.log.Warn("publish signed event", zap.String("txid", txid), zap.Error(err))
	}
}

func (s *service) PsbtFee(ctx context.Context, rawPsbtHex string) (*signer.PsbtResult, error) {
	return s.signer.PsbtFee(rawPsbtHex)
}

func (s *service) DecodeTransaction(ctx context.Context, rawTxHex string) (*signer.TxSummary, error) {
	return s.signer.DecodeTransaction(rawTxHex)
}

func (s *service) ValidateTransaction(ctx context.Context, req signer.TxRequest) error {
	return s.signer.ValidateTransaction(req)
}

func (s *service) SignMessage(ctx context.Context, msg, wif string) (sig string, err error) {
	defer func(start time.Time) { s.metrics.ObserveSign("sign_message", start, err) }(time.Now())
	return s.messages.Sign(msg, wif)
}

func (s *service) VerifyMessage(ctx context.Context, msg, addr, sig string) error {
	if err := s.addrs.Validate(addr); err != nil {
		return err
	}
	return s.messages.Verify(msg, addr, sig)
}

func (s *service) DecryptMessage(ctx context.Context, wif, payload string) (plaintext string, err error) {
	defer func(start time.Time) { s.metrics.ObserveSign("decrypt_message", start, err) }(time.Now())

	kp, err := keys.DecodeWIF(wif)
	if err != nil {
		return "", err
	}
	return crypto_util.DecryptString(kp.Private, payload)
}

func (s *service) EncryptMessage(ctx context.Context, pubKeyHex, plaintext string) (string, error) {
	pub, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return "", fmt.Errorf("%w: public key: %v", errno.ErrInvalidRequest, err)
	}
	out, err := crypto_util.EncryptString(pub, plaintext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errno.ErrInvalidRequest, err)
	}
	return out, nil
}

func (s *service) GenerateAddress(ctx context.Context, index uint32) (*Account, error) {
	if s.hd == nil {
		return nil, ErrNoSeed
	}
	child, err := s.hd.DeriveChild(index)
	if err != nil {
		return nil, err
	}
	kp, err := child.KeyPair()
	if err != nil {
		return nil, err
	}
	addr, err := s.addrs.PubKeyToAddress(kp.PublicKey())
	if err != nil {
		return nil, err
	}
	wif, err := kp.WIF(s.params)
	if err != nil {
		return nil, err
	}
	return &Account{
		Index:     index,
		Path:      bip32.AccountPath(s.params, index),
		Address:   addr,
		PublicKey: hex.EncodeToString(kp.PublicKey()),
		WIF:       wif,
	}, nil
}

func (s *service) ValidateAddress(ctx context.Context, addr string) error {
	return s.addrs.Validate(addr)
}

func (s *service) SpentOutputs(ctx context.Context) ([]spent.SpentOutput, error) {
	return s.spent.List(ctx)
}

func (s *service) IsSpent(ctx context.Context, txid string, vout uint32) (bool, error) {
	if _, err := chainhash.NewHashFromStr(txid); err != nil {
		return false, fmt.Errorf("%w: txid: %v", errno.ErrInvalidRequest, err)
	}
	return s.spent.IsSpent(ctx, txid, vout)
}
