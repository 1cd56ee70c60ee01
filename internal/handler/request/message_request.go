package request

import "encoding/json"

type SignMessageRequest struct {
	Message string `json:"message" binding:"required"`
	WIF     string `json:"wif" binding:"required"`
}

type VerifyMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	Address   string `json:"address" binding:"required,devaddr"`
	Signature string `json:"signature" binding:"required,base64"`
}

type EncryptMessageRequest struct {
	PublicKey string `json:"public_key" binding:"required,hexadecimal"`
	Message   string `json:"message" binding:"required"`
}

type DecryptMessageRequest struct {
	Payload string `json:"payload" binding:"required,base64"`
	WIF     string `json:"wif" binding:"required"`
}

// RelayRequest type 为请求消息类型名，例如 clientRequestPsbt
type RelayRequest struct {
	Type string          `json:"type" binding:"required"`
	Data json.RawMessage `json:"data"`
}
