package request

import "github.com/shopspring/decimal"

type SignTransactionRequest struct {
	RawTx   string `json:"raw_tx" binding:"required,hexadecimal"`
	Indexes []int  `json:"indexes"`
	WIF     string `json:"wif" binding:"required"`
}

type SignPsbtRequest struct {
	RawPsbt     string `json:"raw_psbt" binding:"required,hexadecimal"`
	Indexes     []int  `json:"indexes" binding:"required,min=1"`
	WIF         string `json:"wif" binding:"required"`
	Partial     bool   `json:"partial"`
	SignOnly    bool   `json:"sign_only"`
	SighashType uint32 `json:"sighash_type" binding:"omitempty,sighash"`
}

type PsbtFeeRequest struct {
	RawPsbt string `json:"raw_psbt" binding:"required,hexadecimal"`
}

type DecodeTransactionRequest struct {
	RawTx string `json:"raw_tx" binding:"required,hexadecimal"`
}

type ValidateTransactionRequest struct {
	SenderAddress    string          `json:"sender_address" binding:"required"`
	RecipientAddress string          `json:"recipient_address" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          int64           `json:"balance"`
}

type ValidateAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

type GenerateAddressRequest struct {
	Index uint32 `json:"index"`
}

type SpentOutputQuery struct {
	TxID string `form:"txid" binding:"omitempty,len=64,hexadecimal"`
	Vout uint32 `form:"vout"`
}
