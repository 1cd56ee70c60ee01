package signer

import (
	"testing"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignPsbtFullMode(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	res, err := s.SignPsbt(f.psbtHex(t, false), []int{0, 1}, f.wif, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, int64(10000), res.Fee)
	assert.Equal(t, int64(100000), res.Amount)
	assert.Equal(t, "0.0001", res.FeeCoins().String())
	assert.Equal(t, "0.001", res.AmountCoins().String())

	// 旧式 txid 包含 scriptSig，签名后只比较输入引用与输出
	tx := decodeTxHex(t, res.RawTx)
	require.Len(t, tx.TxIn, len(f.tx.TxIn))
	for i, in := range tx.TxIn {
		assert.Equal(t, f.tx.TxIn[i].PreviousOutPoint, in.PreviousOutPoint)
		assert.NotEmpty(t, in.SignatureScript)
	}
	assert.Equal(t, f.tx.TxOut, tx.TxOut)
	assert.NotEqual(t, f.tx.TxHash(), tx.TxHash())
	f.verifyInput(t, tx, 0)
	f.verifyInput(t, tx, 1)
}

func TestSignPsbtFullModeWithoutTx(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	opts := DefaultOptions()
	opts.WithTx = false
	res, err := s.SignPsbt(f.psbtHex(t, false), []int{0, 1}, f.wif, opts)
	require.NoError(t, err)
	assert.Empty(t, res.RawTx)
	assert.Equal(t, int64(10000), res.Fee)
}

func TestSignPsbtFullModeSegwit(t *testing.T) {
	f := newFixture(t, true)
	s := New(network.Params())

	res, err := s.SignPsbt(f.psbtHex(t, true), []int{0, 1}, f.wif, DefaultOptions())
	require.NoError(t, err)

	tx := decodeTxHex(t, res.RawTx)
	require.True(t, tx.HasWitness())
	f.verifyInput(t, tx, 0)
	f.verifyInput(t, tx, 1)
}

func TestSignPsbtFullModeUnsignedInput(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	// 输入 1 没有其他签名方的签名，终结失败
	_, err := s.SignPsbt(f.psbtHex(t, false), []int{0}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)
}

func TestSignPsbtPartialThenFull(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())

	opts := Options{Partial: true, SighashType: SigHashAll}
	partial, err := s.SignPsbt(f.psbtHex(t, false), []int{0}, f.wif, opts)
	require.NoError(t, err)

	// 已终结的输入 0 被跳过，只签名输入 1
	res, err := s.SignPsbt(partial.RawTx, []int{1}, f.wif, DefaultOptions())
	require.NoError(t, err)

	tx := decodeTxHex(t, res.RawTx)
	f.verifyInput(t, tx, 0)
	f.verifyInput(t, tx, 1)
}

func TestSignPsbtPartialAccounting(t *testing.T) {
	tests := []struct {
		sighash    SighashType
		wantAmount int64
		wantFee    int64
	}{
		{SigHashAll, 100000, -10000},
		{SigHashSingle, 70000, 0},
		{SigHashAnyOneCanPay, 100000, 0},
		{SigHashAllAnyOneCanPay, 100000, 0},
		{SigHashSingleAnyOneCanPay, 70000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.sighash.String(), func(t *testing.T) {
			f := newFixture(t, false)
			s := New(network.Params())

			opts := Options{Partial: true, SighashType: tt.sighash}
			res, err := s.SignPsbt(f.psbtHex(t, false), []int{0}, f.wif, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, res.Amount)
			assert.Equal(t, tt.wantFee, res.Fee)

			// 结果仍是 PSBT，只有输入 0 被终结
			packet, err := DecodePsbt(res.RawTx)
			require.NoError(t, err)
			require.NotEmpty(t, packet.Inputs[0].FinalScriptSig)
			assert.Empty(t, packet.Inputs[1].FinalScriptSig)

			sig := packet.Inputs[0].FinalScriptSig
			assert.Equal(t, byte(tt.sighash), sig[int(sig[0])], "sighash byte at the end of the signature push")

			flags := txscript.StandardVerifyFlags
			if tt.sighash == SigHashAnyOneCanPay {
				flags = txscript.ScriptBip16
			}
			tx := packet.UnsignedTx.Copy()
			tx.TxIn[0].SignatureScript = sig
			f.verifyInputFlags(t, tx, 0, flags)
		})
	}
}

func TestSignPsbtPartialSegwitCoSigner(t *testing.T) {
	for _, st := range []SighashType{SigHashSingleAnyOneCanPay, SigHashAllAnyOneCanPay, SigHashSingle} {
		t.Run(st.String(), func(t *testing.T) {
			f := newFixture(t, true)
			s := New(network.Params())

			// 输入 1 属于其他签名方，没有 utxo 数据
			raw := f.psbtHexWithUtxo(t, true, 0)
			res, err := s.SignPsbt(raw, []int{0}, f.wif, Options{Partial: true, SighashType: st})
			require.NoError(t, err)

			packet, err := DecodePsbt(res.RawTx)
			require.NoError(t, err)
			require.NotEmpty(t, packet.Inputs[0].FinalScriptWitness)
			assert.Empty(t, packet.Inputs[1].FinalScriptWitness)

			f.verifyInput(t, witnessTx(t, packet, 0), 0)
		})
	}
}

func TestSignPsbtPartialMissingUtxo(t *testing.T) {
	f := newFixture(t, true)
	s := New(network.Params())
	raw := f.psbtHexWithUtxo(t, true, 0)

	// SIGHASH_ALL 要算手续费，缺少其他输入的金额时拒绝
	res, err := s.SignPsbt(raw, []int{0}, f.wif, Options{Partial: true, SighashType: SigHashAll})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)
	assert.Contains(t, err.Error(), "SIGHASH_ALL fee needs utxo data")

	// 没有 utxo 数据的输入本身不能签
	_, err = s.SignPsbt(raw, []int{1}, f.wif, Options{Partial: true, SighashType: SigHashSingleAnyOneCanPay})
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	// 完整模式需要全部输入算手续费
	_, err = s.SignPsbt(raw, []int{0}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)
}

func TestSignPsbtRejectsUnsupportedSighash(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())
	raw := f.psbtHex(t, false)

	for _, st := range []SighashType{SigHashNone, 0x82, 4, 130, 255} {
		for _, partial := range []bool{true, false} {
			res, err := s.SignPsbt(raw, []int{0}, f.wif, Options{Partial: partial, SighashType: st})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, errno.ErrUnsupportedSighashType)
		}
	}

	// 拒绝时连 PSBT 都不解析
	_, err := s.SignPsbt("not hex", []int{0}, f.wif, Options{Partial: true, SighashType: SigHashNone})
	assert.ErrorIs(t, err, errno.ErrUnsupportedSighashType)
}

func TestPartialAccountingMissingOutput(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(700, nil))
	tx.AddTxOut(wire.NewTxOut(300, nil))

	amount, fee, err := partialAccounting(tx, []int{0, 2}, SigHashSingle, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(700), amount)
	assert.Zero(t, fee)

	_, _, err = partialAccounting(tx, []int{0}, SigHashNone, 0)
	assert.ErrorIs(t, err, errno.ErrUnsupportedSighashType)
}

func TestSignPsbtFeeRateTooHigh(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params(), WithMaxFeeRate(1))

	_, err := s.SignPsbt(f.psbtHex(t, false), []int{0, 1}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrFeeRateTooHigh)
}

func TestSignPsbtErrors(t *testing.T) {
	f := newFixture(t, false)
	s := New(network.Params())
	raw := f.psbtHex(t, false)

	_, err := s.SignPsbt("zz", []int{0}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	_, err = s.SignPsbt("70736274ff", []int{0}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	_, err = s.SignPsbt(raw, []int{5}, f.wif, DefaultOptions())
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	other, err := testKey(t, 0x33).WIF(network.Params())
	require.NoError(t, err)
	_, err = s.SignPsbt(raw, []int{0}, other, Options{Partial: true, SighashType: SigHashAll})
	assert.ErrorIs(t, err, errno.ErrInvalidKey)
}

func TestPsbtFee(t *testing.T) {
	f := newFixture(t, true)
	s := New(network.Params())

	res, err := s.PsbtFee(f.psbtHex(t, true))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Fee)
	assert.Equal(t, int64(100000), res.Amount)
	assert.Empty(t, res.RawTx)
}

func TestEstimateVSize(t *testing.T) {
	legacy := newFixture(t, false)
	packet, err := DecodePsbt(legacy.psbtHex(t, false))
	require.NoError(t, err)
	legacySize := estimateVSize(packet)

	segwit := newFixture(t, true)
	packet, err = DecodePsbt(segwit.psbtHex(t, true))
	require.NoError(t, err)
	segwitSize := estimateVSize(packet)

	assert.Greater(t, legacySize, segwitSize)
	assert.Greater(t, segwitSize, int64(packet.UnsignedTx.SerializeSizeStripped()))
}
