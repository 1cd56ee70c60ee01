// Package signer 对原始交易和 PSBT 进行签名。
//
// 所有操作都是同步的纯函数：输入是调用方传入的 hex 字符串和 WIF，
// 不访问网络也不持有状态。金额一律使用最小单位 (int64)，
// 展示单位的换算只在 PsbtResult 的访问方法中完成。
package signer

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/keys"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxFeeRate 单位: 最小单位 / vbyte
const DefaultMaxFeeRate int64 = 100000000

type Signer struct {
	params     *chaincfg.Params
	log        *zap.Logger
	maxFeeRate int64
}

type Option func(*Signer)

func WithLogger(log *zap.Logger) Option {
	return func(s *Signer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxFeeRate 非正数保持默认值
func WithMaxFeeRate(rate int64) Option {
	return func(s *Signer) {
		if rate > 0 {
			s.maxFeeRate = rate
		}
	}
}

func New(params *chaincfg.Params, opts ...Option) *Signer {
	if params == nil {
		params = network.Params()
	}
	s := &Signer{
		params:     params,
		log:        zap.NewNop(),
		maxFeeRate: DefaultMaxFeeRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Options SignPsbt 的参数
type Options struct {
	WithTx      bool
	Partial     bool
	SighashType SighashType
}

func DefaultOptions() Options {
	return Options{WithTx: true, Partial: false, SighashType: SigHashAll}
}

// NewOptions 调用方传入的 sighash 为 0 时表示未指定，使用 SigHashAll
func NewOptions(withTx, partial bool, sighash uint32) Options {
	opts := DefaultOptions()
	opts.WithTx = withTx
	opts.Partial = partial
	if sighash != 0 {
		opts.SighashType = SighashType(sighash)
	}
	return opts
}

// PsbtResult 签名结果。
// 部分签名时 RawTx 是 PSBT hex，完整签名且 WithTx 时是可广播的交易 hex。
type PsbtResult struct {
	RawTx  string
	Fee    int64
	Amount int64
}

func (r *PsbtResult) FeeCoins() decimal.Decimal {
	return network.ToCoins(r.Fee)
}

func (r *PsbtResult) AmountCoins() decimal.Decimal {
	return network.ToCoins(r.Amount)
}

// SignFullTransaction 用 SIGHASH_ALL 对 indexes 中的每个输入签名 (P2PKH)，
// indexes 为空时签名全部输入。
func (s *Signer) SignFullTransaction(rawTxHex string, indexes []int, wif string) (string, error) {
	tx, err := DecodeRawTx(rawTxHex)
	if err != nil {
		return "", err
	}

	kp, err := keys.FromWIF(wif, s.params)
	if err != nil {
		return "", err
	}

	pkScript, err := p2pkhScript(kp, s.params)
	if err != nil {
		return "", err
	}

	if len(indexes) == 0 {
		indexes = allIndexes(len(tx.TxIn))
	}
	if err := checkIndexes(indexes, len(tx.TxIn)); err != nil {
		return "", err
	}

	for _, idx := range indexes {
		sigScript, err := txscript.SignatureScript(tx, idx, pkScript, txscript.SigHashAll, kp.Private, kp.Compressed)
		if err != nil {
			return "", fmt.Errorf("sign input %d: %w", idx, err)
		}
		tx.TxIn[idx].SignatureScript = sigScript
	}

	s.log.Debug("raw transaction signed",
		zap.String("txid", tx.TxHash().String()),
		zap.Int("signed_inputs", len(indexes)),
	)
	return encodeTx(tx)
}

// DecodeRawTx hex -> wire.MsgTx
func DecodeRawTx(rawTxHex string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(rawTxHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidTransactionFormat, err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidTransactionFormat, err)
	}
	return tx, nil
}

func encodeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func p2pkhScript(kp *keys.KeyPair, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.NewAddressPubKeyHash(kp.PubKeyHash(), params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

func p2wpkhScript(kp *keys.KeyPair, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.NewAddressWitnessPubKeyHash(kp.PubKeyHash(), params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

func allIndexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func checkIndexes(indexes []int, n int) error {
	for _, idx := range indexes {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: input index %d out of range [0, %d)", errno.ErrInvalidTransactionFormat, idx, n)
		}
	}
	return nil
}
