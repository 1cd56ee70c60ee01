package keys

import (
	"errors"
	"testing"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/network"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWIFRoundTrip(t *testing.T) {
	params := network.Params()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	wif, err := FromPrivateKey(priv).WIF(params)
	require.NoError(t, err)

	kp, err := FromWIF(wif, params)
	require.NoError(t, err)
	assert.True(t, kp.Compressed)
	assert.Equal(t, priv.Serialize(), kp.Private.Serialize())
	assert.Len(t, kp.PublicKey(), 33)
	assert.Len(t, kp.PubKeyHash(), 20)
}

func TestFromWIFWrongNetwork(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	btcWIF, err := FromPrivateKey(priv).WIF(&chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = FromWIF(btcWIF, network.Params())
	assert.True(t, errors.Is(err, errno.ErrInvalidKey))

	// DecodeWIF 不关心网络
	kp, err := DecodeWIF(btcWIF)
	require.NoError(t, err)
	assert.Equal(t, priv.Serialize(), kp.Private.Serialize())
}

func TestDecodeWIFInvalid(t *testing.T) {
	_, err := DecodeWIF("not-a-wif")
	assert.True(t, errors.Is(err, errno.ErrInvalidKey))
}

func TestUncompressedPublicKey(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	kp := &KeyPair{Private: priv, Compressed: false}
	assert.Len(t, kp.PublicKey(), 65)
}
