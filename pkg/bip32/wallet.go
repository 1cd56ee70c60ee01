package bip32

import (
	"fmt"
	"strconv"
	"strings"

	"mydev-wallet/pkg/keys"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	_ ExtendedKey = (*Keychain)(nil)
	_ HDWallet    = (*Wallet)(nil)
)

// Keychain 实现了 ExtendedKey 接口，封装了 hdkeychain.ExtendedKey
type Keychain struct {
	key     *hdkeychain.ExtendedKey
	network *chaincfg.Params
}

func (k *Keychain) String() string {
	return k.key.String()
}

func (k *Keychain) ECPubKey() (*btcec.PublicKey, error) {
	return k.key.ECPubKey()
}

func (k *Keychain) ECPrivKey() (*btcec.PrivateKey, error) {
	return k.key.ECPrivKey()
}

func (k *Keychain) Derive(index uint32) (ExtendedKey, error) {
	childKey, err := k.key.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("派生子密钥失败: %v", err)
	}
	return &Keychain{key: childKey, network: k.network}, nil
}

func (k *Keychain) IsPrivate() bool {
	return k.key.IsPrivate()
}

func (k *Keychain) Address() string {
	addr, err := k.key.Address(k.network)
	if err != nil {
		return "unknown"
	}
	return addr.EncodeAddress()
}

func (k *Keychain) Neuter() (ExtendedKey, error) {
	neuterKey, err := k.key.Neuter()
	if err != nil {
		return nil, fmt.Errorf("转换公钥失败: %v", err)
	}
	return &Keychain{key: neuterKey, network: k.network}, nil
}

// KeyPair 把私有扩展密钥转换成签名用的 KeyPair (压缩公钥)
func (k *Keychain) KeyPair() (*keys.KeyPair, error) {
	priv, err := k.key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return keys.FromPrivateKey(priv), nil
}

// Wallet 实现 HDWallet 接口
type Wallet struct {
	masterKey *Keychain
	network   *chaincfg.Params
}

// NewMasterKeyFromSeed 使用 BIP-39 种子生成主密钥
// network: 默认为 Dogecoinev 主网
func NewMasterKeyFromSeed(seed []byte, params *chaincfg.Params) (*Wallet, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, ErrInvalidSeed
	}

	if params == nil {
		params = network.Params()
	}

	masterKey, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("生成主密钥失败: %v", err)
	}

	return &Wallet{
		masterKey: &Keychain{key: masterKey, network: params},
		network:   params,
	}, nil
}

func (w *Wallet) MasterKey() ExtendedKey {
	return w.masterKey
}

// DerivePath 解析路径并派生密钥
// 支持格式: m/44'/300'/0'/0/0 或 m/44h/300h/0h/0/0
func (w *Wallet) DerivePath(path string) (ExtendedKey, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "m" {
		return w.masterKey, nil
	}

	path = strings.TrimPrefix(path, "m/")

	currentKey := w.masterKey
	for _, segment := range strings.Split(path, "/") {
		isHardened := false
		if strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") {
			isHardened = true
			segment = segment[:len(segment)-1]
		}

		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %v", ErrInvalidPath, segment, err)
		}
		index := uint32(val)
		if index >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: 索引 %d 越界", ErrInvalidPath, index)
		}
		if isHardened {
			index += hdkeychain.HardenedKeyStart
		}

		nextKey, err := currentKey.Derive(index)
		if err != nil {
			return nil, err
		}
		currentKey = nextKey.(*Keychain)
	}

	return currentKey, nil
}

// AccountPath 返回账户 idx 的 BIP-44 路径: m/44'/coin'/0'/0/idx
func AccountPath(params *chaincfg.Params, idx uint32) string {
	return fmt.Sprintf("m/44'/%d'/0'/0/%d", params.HDCoinType, idx)
}

// DeriveChild 从种子按固定路径派生第 idx 个子密钥。相同种子与索引总是得到相同的密钥。
func (w *Wallet) DeriveChild(idx uint32) (*Keychain, error) {
	key, err := w.DerivePath(AccountPath(w.network, idx))
	if err != nil {
		return nil, err
	}
	return key.(*Keychain), nil
}

// DeriveChild 便捷函数: seed -> master -> m/44'/300'/0'/0/idx
func DeriveChild(seed []byte, idx uint32) (*Keychain, error) {
	w, err := NewMasterKeyFromSeed(seed, nil)
	if err != nil {
		return nil, err
	}
	return w.DeriveChild(idx)
}
