package network

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := Params()
	assert.Equal(t, byte(0x1e), p.PubKeyHashAddrID)
	assert.Equal(t, byte(0x16), p.ScriptHashAddrID)
	assert.Equal(t, byte(0x9e), p.PrivateKeyID)
	assert.Equal(t, uint32(300), p.HDCoinType)
	assert.Equal(t, "dc", p.Bech32HRPSegwit)
	assert.Equal(t, [4]byte{0x02, 0xfa, 0xca, 0xfd}, p.HDPublicKeyID)
	assert.Equal(t, [4]byte{0x02, 0xfa, 0xc3, 0x98}, p.HDPrivateKeyID)

	// 重复调用不能 panic
	assert.Same(t, p, Params())
}

func TestUnitConversion(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1.5").Equal(ToCoins(150000000)))
	assert.True(t, decimal.RequireFromString("0.00000001").Equal(ToCoins(1)))
	assert.Equal(t, int64(100000), ToUnits(MinTxAmount))
	assert.Equal(t, int64(123456789), ToUnits(decimal.RequireFromString("1.234567891")))
}
