package crypto_util

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"unicode/utf8"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/safe_random"

	"github.com/btcsuite/btcd/btcec/v2"
)

// 加密消息的布局:
//
//	[ephemeral_pubkey 33][iv 12][aes_key_ct 32][tag 16] [msg_iv 12][msg_ct n][msg_tag 16]
const (
	EphemeralKeySize = 33
	AESKeySize       = 32

	KeySegmentSize = EphemeralKeySize + GCMNonceSize + AESKeySize + GCMTagSize // 93
	MinPayloadSize = KeySegmentSize + GCMNonceSize + GCMTagSize                // 121
)

var kdfInfo = []byte("ecdh derived key")

// deriveKey HMAC-SHA256(key="ecdh derived key", msg=secret)。
// secret 取共享点 x 坐标的最短十六进制表示再按 hex 解码；长度为奇数时最后一个
// 半字节被丢弃，与对端实现保持一致。
func deriveKey(sharedX []byte) []byte {
	h := new(big.Int).SetBytes(sharedX).Text(16)
	if len(h)%2 == 1 {
		h = h[:len(h)-1]
	}
	secret, _ := hex.DecodeString(h)
	return hmacSHA256(kdfInfo, secret)
}

// EncryptMessage 生成临时密钥对，通过 ECDH 包装随机 AES 密钥，再用该密钥加密消息
func EncryptMessage(recipientPub []byte, plaintext []byte) ([]byte, error) {
	pub, err := btcec.ParsePubKey(recipientPub)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient public key: %w", err)
	}

	ephemeral, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	wrapKey := deriveKey(btcec.GenerateSharedSecret(ephemeral, pub))

	aesKey, err := safe_random.GenerateRandomBytes(AESKeySize)
	if err != nil {
		return nil, err
	}
	keyIV, err := safe_random.GenerateRandomBytes(GCMNonceSize)
	if err != nil {
		return nil, err
	}
	keyCT, keyTag, err := SealDetached(wrapKey, keyIV, aesKey)
	if err != nil {
		return nil, err
	}

	msgIV, err := safe_random.GenerateRandomBytes(GCMNonceSize)
	if err != nil {
		return nil, err
	}
	msgCT, msgTag, err := SealDetached(aesKey, msgIV, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, MinPayloadSize+len(plaintext))
	out = append(out, ephemeral.PubKey().SerializeCompressed()...)
	out = append(out, keyIV...)
	out = append(out, keyCT...)
	out = append(out, keyTag...)
	out = append(out, msgIV...)
	out = append(out, msgCT...)
	out = append(out, msgTag...)
	return out, nil
}

// DecryptMessage EncryptMessage 的逆操作。
// 长度不足 121 字节在任何密码学运算之前返回 ErrMalformedPayload；任一 GCM tag 校验失败返回 ErrDecryptionFailed。
func DecryptMessage(priv *btcec.PrivateKey, payload []byte) ([]byte, error) {
	if len(payload) < MinPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", errno.ErrMalformedPayload, len(payload), MinPayloadSize)
	}

	keySeg, msgSeg := payload[:KeySegmentSize], payload[KeySegmentSize:]

	ephemeral, err := btcec.ParsePubKey(keySeg[:EphemeralKeySize])
	if err != nil {
		return nil, fmt.Errorf("%w: ephemeral key: %v", errno.ErrMalformedPayload, err)
	}
	off := EphemeralKeySize
	keyIV := keySeg[off : off+GCMNonceSize]
	off += GCMNonceSize
	keyCT := keySeg[off : off+AESKeySize]
	off += AESKeySize
	keyTag := keySeg[off:]

	wrapKey := deriveKey(btcec.GenerateSharedSecret(priv, ephemeral))
	aesKey, err := OpenDetached(wrapKey, keyIV, keyCT, keyTag)
	if err != nil {
		return nil, fmt.Errorf("%w: key segment", errno.ErrDecryptionFailed)
	}

	msgIV := msgSeg[:GCMNonceSize]
	msgCT := msgSeg[GCMNonceSize : len(msgSeg)-GCMTagSize]
	msgTag := msgSeg[len(msgSeg)-GCMTagSize:]

	plaintext, err := OpenDetached(aesKey, msgIV, msgCT, msgTag)
	if err != nil {
		return nil, fmt.Errorf("%w: message segment", errno.ErrDecryptionFailed)
	}
	return plaintext, nil
}

// DecryptString 解码 base64 载荷并要求明文是合法 UTF-8
func DecryptString(priv *btcec.PrivateKey, payloadB64 string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		return "", fmt.Errorf("%w: base64: %v", errno.ErrMalformedPayload, err)
	}
	plaintext, err := DecryptMessage(priv, payload)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not utf-8", errno.ErrMalformedPayload)
	}
	return string(plaintext), nil
}

// EncryptString 加密并返回 base64
func EncryptString(recipientPub []byte, plaintext string) (string, error) {
	payload, err := EncryptMessage(recipientPub, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}
