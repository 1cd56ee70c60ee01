package crypto_util

import (
	"crypto/hmac"
	"crypto/sha256"
)

// hmacSHA256 ECDH 共享密钥的 KDF
func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
