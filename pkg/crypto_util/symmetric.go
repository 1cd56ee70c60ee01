package crypto_util

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

const (
	GCMNonceSize = 12
	GCMTagSize   = 16
)

var ErrCiphertextTooShort = errors.New("密文太短")

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealDetached 使用调用方提供的 IV 加密，密文与 tag 分开返回
func SealDetached(key, iv, plaintext []byte) (ciphertext, tag []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, nil, errors.New("iv 长度必须是 12 字节")
	}
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - gcm.Overhead()
	return sealed[:split], sealed[split:], nil
}

// OpenDetached 对应 SealDetached，tag 不匹配时返回错误且不返回任何明文
func OpenDetached(key, iv, ciphertext, tag []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() || len(tag) != gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	return gcm.Open(nil, iv, sealed, nil)
}
