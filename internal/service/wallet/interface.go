package wallet

import (
	"context"

	"mydev-wallet/internal/service/spent"
	"mydev-wallet/pkg/signer"
)

// Service 钱包签名服务，进程启动时构造一次
type Service interface {
	// SignTransaction 完整签名原始交易，成功后记录花掉的 UTXO
	SignTransaction(ctx context.Context, rawTxHex string, indexes []int, wif string) (*SignedTx, error)
	// SignPsbt 部分或完整签名 PSBT；只有完整签名并提取出交易时才记录花掉的 UTXO
	SignPsbt(ctx context.Context, rawPsbtHex string, indexes []int, wif string, opts signer.Options) (*signer.PsbtResult, error)
	PsbtFee(ctx context.Context, rawPsbtHex string) (*signer.PsbtResult, error)
	DecodeTransaction(ctx context.Context, rawTxHex string) (*signer.TxSummary, error)
	ValidateTransaction(ctx context.Context, req signer.TxRequest) error

	SignMessage(ctx context.Context, message, wif string) (string, error)
	VerifyMessage(ctx context.Context, message, address, signature string) error
	// DecryptMessage payload 为 base64
	DecryptMessage(ctx context.Context, wif, payload string) (string, error)
	// EncryptMessage pubKeyHex 为接收方公钥，返回 base64
	EncryptMessage(ctx context.Context, pubKeyHex, plaintext string) (string, error)

	// GenerateAddress 由钱包种子派生第 index 个账户
	GenerateAddress(ctx context.Context, index uint32) (*Account, error)
	ValidateAddress(ctx context.Context, address string) error

	SpentOutputs(ctx context.Context) ([]spent.SpentOutput, error)
	// IsSpent 该输出是否已被本钱包签名的交易花掉
	IsSpent(ctx context.Context, txid string, vout uint32) (bool, error)
}

// Account 派生出的账户，WIF 不会被序列化
type Account struct {
	Index     uint32 `json:"index"`
	Path      string `json:"path"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
	WIF       string `json:"-"`
}

type SignedTx struct {
	TxID  string `json:"txid"`
	RawTx string `json:"raw_tx"`
}
