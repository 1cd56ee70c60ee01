// Package keystore 使用口令加密保存钱包助记词 (scrypt + AES-256-GCM)。
package keystore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"mydev-wallet/pkg/crypto_util"
	"mydev-wallet/pkg/safe_random"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

var ErrWrongPassword = errors.New("invalid password or corrupted data (MAC mismatch)")

// EncryptedKeyJSON 沿用 Keystore V3 的结构风格，但保存的是助记词而不是单个私钥
type EncryptedKeyJSON struct {
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm"
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV
	KDF          string       `json:"kdf"`          // "scrypt"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"` // Hex string
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"` // Hex string
}

// ScryptParams 加密时使用的 KDF 参数
type ScryptParams struct {
	N, R, P int
}

var (
	// StandardScrypt 正式使用
	StandardScrypt = ScryptParams{N: 262144, R: 8, P: 1}
	// LightScrypt 测试和低配设备
	LightScrypt = ScryptParams{N: 4096, R: 8, P: 1}
)

const scryptDKLen = 32

// EncryptMnemonic 将助记词使用密码加密为 JSON 结构
func EncryptMnemonic(mnemonic, password string) (*EncryptedKeyJSON, error) {
	return EncryptMnemonicWith(mnemonic, password, StandardScrypt)
}

func EncryptMnemonicWith(mnemonic, password string, params ScryptParams) (*EncryptedKeyJSON, error) {
	// 1. 生成随机 Salt
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, err
	}

	// 2. 使用 Scrypt 派生密钥，直接用作 AES-256-GCM 的 Key
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// 3. AES-256-GCM 加密
	iv, err := safe_random.GenerateRandomBytes(crypto_util.GCMNonceSize)
	if err != nil {
		return nil, err
	}
	ct, tag, err := crypto_util.SealDetached(derivedKey, iv, []byte(mnemonic))
	if err != nil {
		return nil, err
	}
	ciphertext := append(ct, tag...)

	// 4. 构造 JSON
	return &EncryptedKeyJSON{
		Version: 3,
		Id:      uuid.NewString(),
		Crypto: CryptoJSON{
			Cipher:       "aes-256-gcm",
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{IV: hex.EncodeToString(iv)},
			KDF:          "scrypt",
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     params.N,
				R:     params.R,
				P:     params.P,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(computeMAC(derivedKey, ciphertext)),
		},
	}, nil
}

// DecryptMnemonic 解密 Keystore JSON 获取助记词
func DecryptMnemonic(keyJSON *EncryptedKeyJSON, password string) (string, error) {
	if keyJSON.Crypto.KDF != "scrypt" || keyJSON.Crypto.Cipher != "aes-256-gcm" {
		return "", fmt.Errorf("unsupported keystore: kdf=%s cipher=%s", keyJSON.Crypto.KDF, keyJSON.Crypto.Cipher)
	}

	// 1. 解析 Hex 参数
	salt, err := hex.DecodeString(keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %v", err)
	}
	iv, err := hex.DecodeString(keyJSON.Crypto.CipherParams.IV)
	if err != nil {
		return "", fmt.Errorf("invalid iv: %v", err)
	}
	ciphertext, err := hex.DecodeString(keyJSON.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %v", err)
	}
	mac, err := hex.DecodeString(keyJSON.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %v", err)
	}
	if len(ciphertext) < crypto_util.GCMTagSize {
		return "", crypto_util.ErrCiphertextTooShort
	}

	// 2. 重新派生密钥
	kdf := keyJSON.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, kdf.N, kdf.R, kdf.P, kdf.DKLen)
	if err != nil {
		return "", err
	}

	// 3. 验证 MAC
	if !hmac.Equal(mac, computeMAC(derivedKey, ciphertext)) {
		return "", ErrWrongPassword
	}

	// 4. 解密
	split := len(ciphertext) - crypto_util.GCMTagSize
	plaintext, err := crypto_util.OpenDetached(derivedKey, iv, ciphertext[:split], ciphertext[split:])
	if err != nil {
		return "", fmt.Errorf("decryption failed: %v", err)
	}
	return string(plaintext), nil
}

// MAC = SHA256(derivedKey || ciphertext)
func computeMAC(derivedKey, ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(derivedKey)
	h.Write(ciphertext)
	return h.Sum(nil)
}

// SaveToFile 保存到文件 (0600)
func (k *EncryptedKeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*EncryptedKeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k EncryptedKeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse keystore %s: %w", filename, err)
	}
	return &k, nil
}
