package signer

import (
	"testing"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedSighash(t *testing.T) {
	for _, st := range []SighashType{1, 3, 128, 129, 131} {
		assert.True(t, IsAllowedSighash(st), "%d", st)
	}
	for _, st := range []SighashType{0, 2, 4, 130, 255} {
		assert.False(t, IsAllowedSighash(st), "%d", st)
	}
	assert.Equal(t, "SINGLE|ANYONECANPAY", SigHashSingleAnyOneCanPay.String())
}

func TestNewOptions(t *testing.T) {
	assert.Equal(t, DefaultOptions(), NewOptions(true, false, 0))

	opts := NewOptions(false, true, 131)
	assert.False(t, opts.WithTx)
	assert.True(t, opts.Partial)
	assert.Equal(t, SigHashSingleAnyOneCanPay, opts.SighashType)

	// 0 表示未指定
	assert.Equal(t, SigHashAll, NewOptions(true, true, 0).SighashType)
}

func TestSignFullTransaction(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	signed, err := s.SignFullTransaction(f.rawTxHex(t), nil, f.wif)
	require.NoError(t, err)

	tx := decodeTxHex(t, signed)
	for i := range tx.TxIn {
		f.verifyInput(t, tx, i)
	}
}

func TestSignFullTransactionSubset(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	signed, err := s.SignFullTransaction(f.rawTxHex(t), []int{1}, f.wif)
	require.NoError(t, err)

	tx := decodeTxHex(t, signed)
	assert.Empty(t, tx.TxIn[0].SignatureScript)
	f.verifyInput(t, tx, 1)
}

func TestSignFullTransactionErrors(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	_, err := s.SignFullTransaction("zz-not-hex", nil, f.wif)
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	_, err = s.SignFullTransaction("deadbeef", nil, f.wif)
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	_, err = s.SignFullTransaction(f.rawTxHex(t), []int{2}, f.wif)
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	// 比特币主网 WIF 的版本字节不同
	btcWIF, err := btcutil.NewWIF(f.kp.Private, &chaincfg.MainNetParams, true)
	require.NoError(t, err)
	_, err = s.SignFullTransaction(f.rawTxHex(t), nil, btcWIF.String())
	assert.ErrorIs(t, err, errno.ErrInvalidKey)
}

func TestValidateTransaction(t *testing.T) {
	params := network.Params()
	sender, err := p2pkhAddress(testKey(t, 0x11), params)
	require.NoError(t, err)
	recipient, err := p2pkhAddress(testKey(t, 0x22), params)
	require.NoError(t, err)

	s := New(params)
	oneCoin := int64(network.CoinUnit)

	tests := []struct {
		name string
		req  TxRequest
		want error
	}{
		{"ok", TxRequest{sender, recipient, dec("0.5"), oneCoin}, nil},
		{"minimum", TxRequest{sender, recipient, dec("0.001"), oneCoin}, nil},
		{"whole balance", TxRequest{sender, recipient, dec("1"), oneCoin}, nil},
		{"bad address", TxRequest{sender, "DBadAddress", dec("0.5"), oneCoin}, errno.ErrInvalidAddress},
		{"bad address wins over self send", TxRequest{"xyz", "xyz", dec("0.5"), oneCoin}, errno.ErrInvalidAddress},
		{"self send", TxRequest{recipient, " " + recipient, dec("0.5"), oneCoin}, errno.ErrSelfSendRejected},
		{"zero amount", TxRequest{sender, recipient, dec("0"), oneCoin}, errno.ErrInvalidAmount},
		{"below minimum", TxRequest{sender, recipient, dec("0.0009"), oneCoin}, errno.ErrInvalidAmount},
		{"negative", TxRequest{sender, recipient, dec("-1"), oneCoin}, errno.ErrInvalidAmount},
		{"insufficient", TxRequest{sender, recipient, dec("1.00000001"), oneCoin}, errno.ErrInsufficientBalance},
		{"invalid amount wins over balance", TxRequest{sender, recipient, dec("0"), 0}, errno.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateTransaction(tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeTransaction(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	summary, err := s.DecodeTransaction(f.rawTxHex(t))
	require.NoError(t, err)

	assert.Equal(t, f.tx.TxHash().String(), summary.TxID)
	require.Len(t, summary.Inputs, 2)
	assert.Equal(t, f.prevTxs[0].TxHash().String(), summary.Inputs[0].TxID)
	assert.Equal(t, uint32(0), summary.Inputs[0].Vout)

	recipient, err := p2pkhAddress(testKey(t, 0x22), network.Params())
	require.NoError(t, err)
	require.Len(t, summary.Outputs, 2)
	assert.Equal(t, recipient, summary.Outputs[0].Address)
	assert.Equal(t, int64(100000), summary.Total)
	assert.Equal(t, "0.0007", summary.Outputs[0].Coins.String())
}
