package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"mydev-wallet/internal/event"
	"mydev-wallet/internal/service/spent"
	"mydev-wallet/pkg/cache"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/keys"
	"mydev-wallet/pkg/monitor"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic, key string
	payload    []byte
}

type recordingProducer struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recordingProducer) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, key: key, payload: payload})
	return nil
}

type env struct {
	svc      Service
	spent    *spent.Cache
	producer *recordingProducer
	metrics  *monitor.BusinessMetrics
	kp       *keys.KeyPair
	wif      string
	pkScript []byte
}

func newEnv(t *testing.T, seed []byte) *env {
	t.Helper()
	params := network.Params()

	priv, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
	kp := keys.FromPrivateKey(priv)
	wif, err := kp.WIF(params)
	require.NoError(t, err)
	addr, err := btcutil.NewAddressPubKeyHash(kp.PubKeyHash(), params)
	require.NoError(t, err)
	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	e := &env{
		spent:    spent.New(cache.NewMemoryStore(0, time.Minute)),
		producer: &recordingProducer{},
		metrics:  monitor.NewBusinessMetrics(prometheus.NewRegistry()),
		kp:       kp,
		wif:      wif,
		pkScript: pkScript,
	}
	e.svc, err = New(Deps{
		Params:   params,
		Signer:   signer.New(params),
		Spent:    e.spent,
		Producer: e.producer,
		Metrics:  e.metrics,
		Seed:     seed,
	})
	require.NoError(t, err)
	return e
}

// unsigned 一个输入花费 prev 的第 0 个输出，一个输出
func (e *env) unsigned(prev *wire.MsgTx, out int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: prev.TxHash(), Index: 0}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(out, e.pkScript))
	return tx
}

func (e *env) prevTx(value int64) *wire.MsgTx {
	prev := wire.NewMsgTx(wire.TxVersion)
	prev.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: chainhash.Hash{0x42}}, nil, nil))
	prev.AddTxOut(wire.NewTxOut(value, e.pkScript))
	return prev
}

func txHex(t *testing.T, tx *wire.MsgTx) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

func psbtHex(t *testing.T, tx, prev *wire.MsgTx) string {
	t.Helper()
	packet, err := psbt.NewFromUnsignedTx(tx)
	require.NoError(t, err)
	updater, err := psbt.NewUpdater(packet)
	require.NoError(t, err)
	require.NoError(t, updater.AddInNonWitnessUtxo(prev, 0))
	raw, err := signer.EncodePsbt(packet)
	require.NoError(t, err)
	return raw
}

func TestSignTransactionRecordsSpentInputs(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	prev := e.prevTx(100000)
	tx := e.unsigned(prev, 90000)

	out, err := e.svc.SignTransaction(ctx, txHex(t, tx), nil, e.wif)
	require.NoError(t, err)
	require.NotEmpty(t, out.RawTx)
	signedBytes, err := hex.DecodeString(out.RawTx)
	require.NoError(t, err)
	var signedTx wire.MsgTx
	require.NoError(t, signedTx.Deserialize(bytes.NewReader(signedBytes)))
	assert.Equal(t, signedTx.TxHash().String(), out.TxID)
	assert.Equal(t, tx.TxIn[0].PreviousOutPoint, signedTx.TxIn[0].PreviousOutPoint)

	list, err := e.svc.SpentOutputs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, prev.TxHash().String(), list[0].TxID)
	assert.Equal(t, uint32(0), list[0].Vout)
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.SpentOutputsCached))

	spentNow, err := e.svc.IsSpent(ctx, prev.TxHash().String(), 0)
	require.NoError(t, err)
	assert.True(t, spentNow)
	spentNow, err = e.svc.IsSpent(ctx, prev.TxHash().String(), 1)
	require.NoError(t, err)
	assert.False(t, spentNow)
	_, err = e.svc.IsSpent(ctx, "nothex", 0)
	assert.ErrorIs(t, err, errno.ErrInvalidRequest)

	require.Len(t, e.producer.msgs, 1)
	msg := e.producer.msgs[0]
	assert.Equal(t, event.TopicTransactionSigned, msg.topic)
	assert.Equal(t, out.TxID, msg.key)

	var evt event.TransactionSignedEvent
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "raw", evt.Kind)
	assert.Equal(t, 1, evt.Inputs)
	assert.Equal(t, "0.0009", evt.Amount)
	assert.NotEmpty(t, evt.RequestID)
}

func TestSignTransactionInvalidHex(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.svc.SignTransaction(context.Background(), "zz", nil, e.wif)
	assert.ErrorIs(t, err, errno.ErrInvalidTransactionFormat)

	list, err := e.svc.SpentOutputs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, e.producer.msgs)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.metrics.SignRequestsTotal.WithLabelValues("sign_tx", "20101")))
}

func TestSignTransactionPublishFailureStillSucceeds(t *testing.T) {
	e := newEnv(t, nil)
	e.producer.err = errors.New("broker down")
	prev := e.prevTx(100000)

	out, err := e.svc.SignTransaction(context.Background(), txHex(t, e.unsigned(prev, 90000)), nil, e.wif)
	require.NoError(t, err)
	assert.NotEmpty(t, out.RawTx)

	spentNow, err := e.spent.IsSpent(context.Background(), prev.TxHash().String(), 0)
	require.NoError(t, err)
	assert.True(t, spentNow)
}

func TestSignPsbtFullRecordsSpentInputs(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	prev := e.prevTx(100000)
	raw := psbtHex(t, e.unsigned(prev, 90000), prev)

	res, err := e.svc.SignPsbt(ctx, raw, []int{0}, e.wif, signer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Fee)
	assert.Equal(t, int64(90000), res.Amount)
	require.NotEmpty(t, res.RawTx)

	list, err := e.svc.SpentOutputs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.Len(t, e.producer.msgs, 1)
	var evt event.TransactionSignedEvent
	require.NoError(t, json.Unmarshal(e.producer.msgs[0].payload, &evt))
	assert.Equal(t, "psbt", evt.Kind)
	assert.Equal(t, "0.0001", evt.Fee)
}

func TestSignPsbtPartialDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	prev := e.prevTx(100000)
	raw := psbtHex(t, e.unsigned(prev, 90000), prev)

	opts := signer.Options{Partial: true, SighashType: signer.SigHashAll}
	res, err := e.svc.SignPsbt(ctx, raw, []int{0}, e.wif, opts)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RawTx)

	list, err := e.svc.SpentOutputs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, e.producer.msgs)
}

func TestSignPsbtUnsupportedSighash(t *testing.T) {
	e := newEnv(t, nil)
	opts := signer.Options{Partial: true, SighashType: 0x42}
	res, err := e.svc.SignPsbt(context.Background(), "00", []int{0}, e.wif, opts)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errno.ErrUnsupportedSighashType)
}

func TestMessageSignVerify(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	addr, err := btcutil.NewAddressPubKeyHash(e.kp.PubKeyHash(), network.Params())
	require.NoError(t, err)

	sig, err := e.svc.SignMessage(ctx, "hello dev", e.wif)
	require.NoError(t, err)
	assert.NoError(t, e.svc.VerifyMessage(ctx, "hello dev", addr.EncodeAddress(), sig))
	assert.Error(t, e.svc.VerifyMessage(ctx, "hello dog", addr.EncodeAddress(), sig))
	assert.ErrorIs(t, e.svc.VerifyMessage(ctx, "hello dev", "not-an-address", sig), errno.ErrInvalidAddress)
}

func TestEncryptDecryptMessage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	payload, err := e.svc.EncryptMessage(ctx, hex.EncodeToString(e.kp.PublicKey()), "secret note")
	require.NoError(t, err)

	plain, err := e.svc.DecryptMessage(ctx, e.wif, payload)
	require.NoError(t, err)
	assert.Equal(t, "secret note", plain)

	_, err = e.svc.DecryptMessage(ctx, e.wif, "AAAA")
	assert.ErrorIs(t, err, errno.ErrMalformedPayload)

	_, err = e.svc.EncryptMessage(ctx, "nothex", "x")
	assert.ErrorIs(t, err, errno.ErrInvalidRequest)
}

func TestGenerateAddress(t *testing.T) {
	ctx := context.Background()
	seed := bytes.Repeat([]byte{0x5a}, 64)
	e := newEnv(t, seed)

	a0, err := e.svc.GenerateAddress(ctx, 0)
	require.NoError(t, err)
	a0again, err := e.svc.GenerateAddress(ctx, 0)
	require.NoError(t, err)
	a1, err := e.svc.GenerateAddress(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, a0.Address, a0again.Address)
	assert.NotEqual(t, a0.Address, a1.Address)
	assert.NoError(t, e.svc.ValidateAddress(ctx, a0.Address))
	assert.NotEmpty(t, a0.WIF)

	// WIF 不出现在 JSON 中
	b, err := json.Marshal(a0)
	require.NoError(t, err)
	assert.NotContains(t, string(b), a0.WIF)

	kp, err := keys.FromWIF(a0.WIF, network.Params())
	require.NoError(t, err)
	assert.Equal(t, a0.PublicKey, hex.EncodeToString(kp.PublicKey()))
}

func TestGenerateAddressWithoutSeed(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.svc.GenerateAddress(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoSeed)
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func mustPayTo(t *testing.T, addr string) []byte {
	t.Helper()
	decoded, err := btcutil.DecodeAddress(addr, network.Params())
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(decoded)
	require.NoError(t, err)
	return script
}
