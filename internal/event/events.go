package event

import "time"

// TopicTransactionSigned 完整签名成功后发布
const TopicTransactionSigned = "wallet_events_signed_tx"

// TransactionSignedEvent 交易签名完成事件
// Topic: wallet_events_signed_tx
type TransactionSignedEvent struct {
	RequestID string    `json:"request_id"`
	TxID      string    `json:"txid"`
	Kind      string    `json:"kind"`   // "raw" / "psbt"
	Inputs    int       `json:"inputs"` // 被标记为已花费的输入数
	Amount    string    `json:"amount"` // Decimal string
	Fee       string    `json:"fee"`    // Decimal string
	SignedAt  time.Time `json:"signed_at"`
}
