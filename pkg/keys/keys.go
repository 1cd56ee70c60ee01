// Package keys 负责 WIF 私钥的解码，每次签名调用临时构造 KeyPair，不做持久化。
package keys

import (
	"fmt"

	"mydev-wallet/pkg/errno"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// KeyPair 私钥标量 + 公钥
type KeyPair struct {
	Private    *btcec.PrivateKey
	Compressed bool
}

// DecodeWIF 解码 WIF，不校验网络版本字节
func DecodeWIF(wif string) (*KeyPair, error) {
	w, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidKey, err)
	}
	return &KeyPair{Private: w.PrivKey, Compressed: w.CompressPubKey}, nil
}

// FromWIF 解码 WIF 并要求版本字节与 params 一致
func FromWIF(wif string, params *chaincfg.Params) (*KeyPair, error) {
	w, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidKey, err)
	}
	if !w.IsForNet(params) {
		return nil, fmt.Errorf("%w: wif is not for network %s", errno.ErrInvalidKey, params.Name)
	}
	return &KeyPair{Private: w.PrivKey, Compressed: w.CompressPubKey}, nil
}

// FromPrivateKey 用已有私钥构造压缩格式的 KeyPair
func FromPrivateKey(priv *btcec.PrivateKey) *KeyPair {
	return &KeyPair{Private: priv, Compressed: true}
}

// PublicKey 按 WIF 中的压缩标志序列化公钥
func (k *KeyPair) PublicKey() []byte {
	if k.Compressed {
		return k.Private.PubKey().SerializeCompressed()
	}
	return k.Private.PubKey().SerializeUncompressed()
}

// PubKeyHash hash160(pubkey)
func (k *KeyPair) PubKeyHash() []byte {
	return btcutil.Hash160(k.PublicKey())
}

// WIF 重新编码为 WIF 字符串
func (k *KeyPair) WIF(params *chaincfg.Params) (string, error) {
	w, err := btcutil.NewWIF(k.Private, params, k.Compressed)
	if err != nil {
		return "", err
	}
	return w.String(), nil
}
