package signer

import (
	"bytes"
	"encoding/hex"
	"testing"

	"mydev-wallet/pkg/keys"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture 2 输入 / 2 输出: 输入 60000 + 50000，输出 70000 + 30000，手续费 10000
type fixture struct {
	kp       *keys.KeyPair
	wif      string
	pkScript []byte
	prevTxs  []*wire.MsgTx
	tx       *wire.MsgTx
	prevOuts map[wire.OutPoint]*wire.TxOut
}

var (
	inputValues  = []int64{60000, 50000}
	outputValues = []int64{70000, 30000}
)

func testKey(t *testing.T, seed byte) *keys.KeyPair {
	t.Helper()
	priv, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	return keys.FromPrivateKey(priv)
}

func newFixture(t *testing.T, segwit bool) *fixture {
	t.Helper()
	params := network.Params()

	kp := testKey(t, 0x11)
	wif, err := kp.WIF(params)
	require.NoError(t, err)

	var pkScript []byte
	if segwit {
		pkScript, err = p2wpkhScript(kp, params)
	} else {
		pkScript, err = p2pkhScript(kp, params)
	}
	require.NoError(t, err)

	recipient, err := p2pkhScript(testKey(t, 0x22), params)
	require.NoError(t, err)

	f := &fixture{
		kp:       kp,
		wif:      wif,
		pkScript: pkScript,
		tx:       wire.NewMsgTx(wire.TxVersion),
		prevOuts: make(map[wire.OutPoint]*wire.TxOut),
	}
	for i, value := range inputValues {
		prev := wire.NewMsgTx(wire.TxVersion)
		prev.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: chainhash.Hash{byte(i + 1)}, Index: 0}, nil, nil))
		prev.AddTxOut(wire.NewTxOut(value, pkScript))
		f.prevTxs = append(f.prevTxs, prev)

		op := wire.OutPoint{Hash: prev.TxHash(), Index: 0}
		f.tx.AddTxIn(wire.NewTxIn(&op, nil, nil))
		f.prevOuts[op] = prev.TxOut[0]
	}
	for _, value := range outputValues {
		f.tx.AddTxOut(wire.NewTxOut(value, recipient))
	}
	return f
}

func (f *fixture) rawTxHex(t *testing.T) string {
	t.Helper()
	raw, err := encodeTx(f.tx)
	require.NoError(t, err)
	return raw
}

func (f *fixture) psbtHex(t *testing.T, segwit bool) string {
	t.Helper()
	return f.psbtHexWithUtxo(t, segwit, 0, 1)
}

// psbtHexWithUtxo 只给 withUtxo 中的输入附带 utxo 数据，其余输入模拟其他签名方
func (f *fixture) psbtHexWithUtxo(t *testing.T, segwit bool, withUtxo ...int) string {
	t.Helper()
	packet, err := psbt.NewFromUnsignedTx(f.tx.Copy())
	require.NoError(t, err)
	updater, err := psbt.NewUpdater(packet)
	require.NoError(t, err)
	for _, i := range withUtxo {
		prev := f.prevTxs[i]
		if segwit {
			require.NoError(t, updater.AddInWitnessUtxo(prev.TxOut[0], i))
		} else {
			require.NoError(t, updater.AddInNonWitnessUtxo(prev, i))
		}
	}
	raw, err := EncodePsbt(packet)
	require.NoError(t, err)
	return raw
}

// verifyInput 用脚本引擎按标准规则校验一个输入
func (f *fixture) verifyInput(t *testing.T, tx *wire.MsgTx, idx int) {
	t.Helper()
	f.verifyInputFlags(t, tx, idx, txscript.StandardVerifyFlags)
}

// verifyInputFlags 单独的 ANYONECANPAY (0x80) 过不了 STRICTENC，只能按共识规则校验
func (f *fixture) verifyInputFlags(t *testing.T, tx *wire.MsgTx, idx int, flags txscript.ScriptFlags) {
	t.Helper()
	fetcher := txscript.NewMultiPrevOutFetcher(f.prevOuts)
	prev := fetcher.FetchPrevOutput(tx.TxIn[idx].PreviousOutPoint)
	require.NotNil(t, prev)

	vm, err := txscript.NewEngine(prev.PkScript, tx, idx, flags, nil,
		txscript.NewTxSigHashes(tx, fetcher), prev.Value, fetcher)
	require.NoError(t, err)
	require.NoError(t, vm.Execute(), "input %d", idx)
}

// witnessTx 把输入 idx 的最终 witness 放回未签名交易
func witnessTx(t *testing.T, packet *psbt.Packet, idx int) *wire.MsgTx {
	t.Helper()
	tx := packet.UnsignedTx.Copy()
	r := bytes.NewReader(packet.Inputs[idx].FinalScriptWitness)
	n, err := wire.ReadVarInt(r, 0)
	require.NoError(t, err)
	witness := make(wire.TxWitness, 0, n)
	for i := uint64(0); i < n; i++ {
		item, err := wire.ReadVarBytes(r, 0, txscript.MaxScriptElementSize, "witness item")
		require.NoError(t, err)
		witness = append(witness, item)
	}
	tx.TxIn[idx].Witness = witness
	return tx
}

func decodeTxHex(t *testing.T, raw string) *wire.MsgTx {
	t.Helper()
	b, err := hex.DecodeString(raw)
	require.NoError(t, err)
	tx := wire.NewMsgTx(wire.TxVersion)
	require.NoError(t, tx.Deserialize(bytes.NewReader(b)))
	return tx
}

func p2pkhAddress(kp *keys.KeyPair, params *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(kp.PubKeyHash(), params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
