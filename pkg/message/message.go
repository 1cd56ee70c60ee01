// Package message 实现带链前缀的消息签名，与 bitcoinjs-message 的格式兼容。
package message

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"mydev-wallet/pkg/keys"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var ErrInvalidSignature = errors.New("签名无效")

// Hash dsha256(prefix || varint(len(msg)) || msg)，prefix 原样写入
func Hash(prefix, msg string) []byte {
	var buf bytes.Buffer
	buf.WriteString(prefix)
	_ = wire.WriteVarString(&buf, 0, msg)
	return chainhash.DoubleHashB(buf.Bytes())
}

// Signer 使用固定网络参数签名
type Signer struct {
	params *chaincfg.Params
	prefix string
}

func NewSigner(params *chaincfg.Params, prefix string) *Signer {
	return &Signer{params: params, prefix: prefix}
}

// Sign 返回 base64 编码的 65 字节紧凑签名，压缩标志与 WIF 保持一致
func (s *Signer) Sign(msg, wif string) (string, error) {
	kp, err := keys.FromWIF(wif, s.params)
	if err != nil {
		return "", err
	}
	sig := ecdsa.SignCompact(kp.Private, Hash(s.prefix, msg), kp.Compressed)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify 从签名恢复公钥并比对 P2PKH 地址
func (s *Signer) Verify(msg, addr, sigB64 string) error {
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	pub, compressed, err := ecdsa.RecoverCompact(sig, Hash(s.prefix, msg))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var serialized []byte
	if compressed {
		serialized = pub.SerializeCompressed()
	} else {
		serialized = pub.SerializeUncompressed()
	}
	recovered, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), s.params)
	if err != nil {
		return err
	}
	if recovered.EncodeAddress() != addr {
		return ErrInvalidSignature
	}
	return nil
}
