package bip32

import (
	"errors"

	"mydev-wallet/pkg/keys"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ExtendedKey 包装了 BIP-32 扩展密钥
type ExtendedKey interface {
	// String 返回 Base58 编码的密钥字符串 (使用 Dogecoinev 的版本字节)
	String() string

	ECPubKey() (*btcec.PublicKey, error)
	// ECPrivKey 用于获取底层的 EC 私钥 (用于签名)
	ECPrivKey() (*btcec.PrivateKey, error)
	Derive(index uint32) (ExtendedKey, error)
	IsPrivate() bool
	// Address 返回 P2PKH 地址
	Address() string
	Neuter() (ExtendedKey, error)
	// KeyPair 签名用的压缩私钥，公钥扩展密钥返回错误
	KeyPair() (*keys.KeyPair, error)
}

// HDWallet 定义了分层确定性钱包的基本行为
type HDWallet interface {
	MasterKey() ExtendedKey
	// DerivePath 根据路径 (如 "m/44'/300'/0'/0/0") 派生密钥
	DerivePath(path string) (ExtendedKey, error)
	// DeriveChild 派生 m/44'/coin'/0'/0/idx 账户
	DeriveChild(idx uint32) (*Keychain, error)
}

var (
	ErrInvalidSeed = errors.New("无效的种子")
	ErrInvalidPath = errors.New("无效的派生路径")
)
