package signer

import (
	"mydev-wallet/pkg/address"
	"mydev-wallet/pkg/network"

	"github.com/shopspring/decimal"
)

type InputRef struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

type OutputSummary struct {
	Address string          `json:"address"`
	Value   int64           `json:"value"`
	Coins   decimal.Decimal `json:"coins"`
}

// TxSummary 确认页展示用的交易摘要
type TxSummary struct {
	TxID    string          `json:"txid"`
	Inputs  []InputRef      `json:"inputs"`
	Outputs []OutputSummary `json:"outputs"`
	Total   int64           `json:"total"`
}

// DecodeTransaction 解析原始交易，非标准输出脚本的地址为空
func (s *Signer) DecodeTransaction(rawTxHex string) (*TxSummary, error) {
	tx, err := DecodeRawTx(rawTxHex)
	if err != nil {
		return nil, err
	}

	gen := address.NewGenerator(s.params)
	summary := &TxSummary{
		TxID:    tx.TxHash().String(),
		Inputs:  make([]InputRef, 0, len(tx.TxIn)),
		Outputs: make([]OutputSummary, 0, len(tx.TxOut)),
	}
	for _, in := range tx.TxIn {
		summary.Inputs = append(summary.Inputs, InputRef{
			TxID: in.PreviousOutPoint.Hash.String(),
			Vout: in.PreviousOutPoint.Index,
		})
	}
	for _, out := range tx.TxOut {
		summary.Outputs = append(summary.Outputs, OutputSummary{
			Address: gen.ScriptToAddress(out.PkScript),
			Value:   out.Value,
			Coins:   network.ToCoins(out.Value),
		})
		summary.Total += out.Value
	}
	return summary, nil
}
