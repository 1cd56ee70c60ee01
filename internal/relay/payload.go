package relay

import (
	"encoding/json"
	"fmt"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/signer"
)

// Payload 请求数据。实现方只在本包内，每种 Kind 对应一个类型。
type Payload interface {
	Kind() Kind
	// Validate 在入队前检查必填字段
	Validate() error
	sealed()
}

type ConnectionRequest struct{}

type TransactionRequest struct {
	RecipientAddress string `json:"recipientAddress"`
	DevAmount        string `json:"devAmount"`
}

// InscriptionRequest Location 格式为 txid:vout:offset
type InscriptionRequest struct {
	RecipientAddress string `json:"recipientAddress"`
	Location         string `json:"location"`
}

type Dev20Request struct {
	Ticker string `json:"ticker"`
	Amount string `json:"amount"`
}

type DunesRequest struct {
	Ticker           string `json:"ticker"`
	Amount           string `json:"amount"`
	RecipientAddress string `json:"recipientAddress"`
}

type PsbtRequest struct {
	RawTx       string `json:"rawTx"`
	Indexes     []int  `json:"indexes"`
	SignOnly    bool   `json:"signOnly"`
	Partial     bool   `json:"partial"`
	SighashType uint32 `json:"sighashType"`
}

type SignedMessageRequest struct {
	Message string `json:"message"`
}

type DecryptedMessageRequest struct {
	Message string `json:"message"`
}

func (ConnectionRequest) Kind() Kind       { return KindConnection }
func (TransactionRequest) Kind() Kind      { return KindTransaction }
func (InscriptionRequest) Kind() Kind      { return KindInscriptionTransaction }
func (Dev20Request) Kind() Kind            { return KindDev20Transaction }
func (DunesRequest) Kind() Kind            { return KindDunesTransaction }
func (PsbtRequest) Kind() Kind             { return KindPsbt }
func (SignedMessageRequest) Kind() Kind    { return KindSignedMessage }
func (DecryptedMessageRequest) Kind() Kind { return KindDecryptedMessage }

func (ConnectionRequest) sealed()       {}
func (TransactionRequest) sealed()      {}
func (InscriptionRequest) sealed()      {}
func (Dev20Request) sealed()            {}
func (DunesRequest) sealed()            {}
func (PsbtRequest) sealed()             {}
func (SignedMessageRequest) sealed()    {}
func (DecryptedMessageRequest) sealed() {}

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", errno.ErrInvalidRequest, field)
}

func (ConnectionRequest) Validate() error { return nil }

func (r TransactionRequest) Validate() error {
	switch {
	case r.RecipientAddress == "":
		return missing("recipientAddress")
	case r.DevAmount == "":
		return missing("devAmount")
	}
	return nil
}

func (r InscriptionRequest) Validate() error {
	switch {
	case r.RecipientAddress == "":
		return missing("recipientAddress")
	case r.Location == "":
		return missing("location")
	}
	return nil
}

func (r Dev20Request) Validate() error {
	switch {
	case r.Ticker == "":
		return missing("ticker")
	case r.Amount == "":
		return missing("amount")
	}
	return nil
}

func (r DunesRequest) Validate() error {
	switch {
	case r.Ticker == "":
		return missing("ticker")
	case r.Amount == "":
		return missing("amount")
	case r.RecipientAddress == "":
		return missing("recipientAddress")
	}
	return nil
}

func (r PsbtRequest) Validate() error {
	switch {
	case r.RawTx == "":
		return missing("rawTx")
	case len(r.Indexes) == 0:
		return missing("indexes")
	case r.SighashType != 0 && !signer.IsAllowedSighash(signer.SighashType(r.SighashType)):
		return fmt.Errorf("%w: sighashType %d", errno.ErrUnsupportedSighashType, r.SighashType)
	}
	return nil
}

func (r SignedMessageRequest) Validate() error {
	if r.Message == "" {
		return missing("message")
	}
	return nil
}

func (r DecryptedMessageRequest) Validate() error {
	if r.Message == "" {
		return missing("message")
	}
	return nil
}

// DecodePayload 按 Kind 把 JSON 解析为对应的 Payload 类型，data 为空时使用零值
func DecodePayload(kind Kind, data []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindConnection:
		p = &ConnectionRequest{}
	case KindTransaction:
		p = &TransactionRequest{}
	case KindInscriptionTransaction:
		p = &InscriptionRequest{}
	case KindDev20Transaction:
		p = &Dev20Request{}
	case KindDunesTransaction:
		p = &DunesRequest{}
	case KindPsbt:
		p = &PsbtRequest{}
	case KindSignedMessage:
		p = &SignedMessageRequest{}
	case KindDecryptedMessage:
		p = &DecryptedMessageRequest{}
	default:
		return nil, fmt.Errorf("%w: unknown request kind %d", errno.ErrInvalidRequest, uint8(kind))
	}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("%w: %v", errno.ErrInvalidRequest, err)
		}
	}
	return deref(p), nil
}

// deref 处理函数按值断言 Payload，这里去掉指针；nil 指针返回 nil
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *ConnectionRequest:
		if v != nil {
			return *v
		}
	case *TransactionRequest:
		if v != nil {
			return *v
		}
	case *InscriptionRequest:
		if v != nil {
			return *v
		}
	case *Dev20Request:
		if v != nil {
			return *v
		}
	case *DunesRequest:
		if v != nil {
			return *v
		}
	case *PsbtRequest:
		if v != nil {
			return *v
		}
	case *SignedMessageRequest:
		if v != nil {
			return *v
		}
	case *DecryptedMessageRequest:
		if v != nil {
			return *v
		}
	default:
		return p
	}
	return nil
}
