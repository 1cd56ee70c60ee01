// Package network 定义 Dogecoinev 主网参数。
// 这些常量是链的线上协议的一部分，必须逐字节一致，不允许按调用配置。
package network

import (
	"errors"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
)

const (
	// MessagePrefix 消息签名前缀，首字节 0x19 原样参与哈希
	MessagePrefix = "\x19Devcoinev Signed Message:\n"
	Bech32HRP     = "dc"
	BIP44CoinType = 300

	PubKeyHashAddrID = 0x1e
	ScriptHashAddrID = 0x16
	PrivateKeyID     = 0x9e

	// CoinUnit 每个币对应的最小单位数量
	CoinUnit = 100000000

	// Net 魔数，仅用于在 chaincfg 中注册，避免与 btcd 内置网络冲突
	Net wire.BitcoinNet = 0xc0c0c0c0
)

var (
	HDPublicKeyID  = [4]byte{0x02, 0xfa, 0xca, 0xfd}
	HDPrivateKeyID = [4]byte{0x02, 0xfa, 0xc3, 0x98}

	// MinTxAmount 最小可发送金额 (币)
	MinTxAmount = decimal.RequireFromString("0.001")
)

// MainNetParams Dogecoinev mainnet
var MainNetParams = newMainNetParams()

var registerOnce sync.Once

func newMainNetParams() chaincfg.Params {
	p := chaincfg.MainNetParams
	p.Name = "dogecoinev"
	p.Net = Net
	p.Bech32HRPSegwit = Bech32HRP
	p.PubKeyHashAddrID = PubKeyHashAddrID
	p.ScriptHashAddrID = ScriptHashAddrID
	p.PrivateKeyID = PrivateKeyID
	p.HDPublicKeyID = HDPublicKeyID
	p.HDPrivateKeyID = HDPrivateKeyID
	p.HDCoinType = BIP44CoinType
	return p
}

// Params 返回已注册的主网参数。
// hdkeychain 的 Neuter 需要通过 chaincfg 的注册表把 xprv 版本映射为 xpub 版本。
func Params() *chaincfg.Params {
	registerOnce.Do(func() {
		if err := chaincfg.Register(&MainNetParams); err != nil && !errors.Is(err, chaincfg.ErrDuplicateNet) {
			panic(err)
		}
	})
	return &MainNetParams
}

// ToCoins 最小单位 -> 展示单位
func ToCoins(units int64) decimal.Decimal {
	return decimal.New(units, -8)
}

// ToUnits 展示单位 -> 最小单位 (截断到 8 位小数)
func ToUnits(coins decimal.Decimal) int64 {
	return coins.Shift(8).Truncate(0).IntPart()
}
