// Package relay 把调用方的请求排队转发给有签名权限的处理方，一次只处理一个。
package relay

import "fmt"

// Kind 请求类型，是一个封闭集合
type Kind uint8

const (
	KindConnection Kind = iota + 1
	KindTransaction
	KindInscriptionTransaction
	KindDev20Transaction
	KindDunesTransaction
	KindPsbt
	KindSignedMessage
	KindDecryptedMessage

	kindEnd
)

type kindNames struct {
	request  string
	response string
}

// 线上的消息类型名，请求与响应一一对应
var names = [kindEnd]kindNames{
	KindConnection:             {"clientRequestConnection", "clientRequestConnectionResponse"},
	KindTransaction:            {"clientRequestTransaction", "clientRequestTransactionResponse"},
	KindInscriptionTransaction: {"clientRequestDevinalTransaction", "clientRequestDevinalTransactionResponse"},
	KindDev20Transaction:       {"clientRequestDEV20Transaction", "clientRequestDEV20TransactionResponse"},
	KindDunesTransaction:       {"clientRequestDunesTransaction", "clientRequestDunesTransactionResponse"},
	KindPsbt:                   {"clientRequestPsbt", "clientRequestPsbtResponse"},
	KindSignedMessage:          {"clientRequestSignedMessage", "clientRequestSignedMessageResponse"},
	KindDecryptedMessage:       {"clientRequestDecryptedMessage", "clientRequestDecryptedMessageResponse"},
}

// Kinds 全部请求类型
func Kinds() []Kind {
	out := make([]Kind, 0, kindEnd-1)
	for k := KindConnection; k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) Valid() bool {
	return k >= KindConnection && k < kindEnd
}

// String 请求消息类型名
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return names[k].request
}

// ResponseType 对应的响应消息类型名
func (k Kind) ResponseType() string {
	if !k.Valid() {
		return ""
	}
	return names[k].response
}

// ParseKind 由请求消息类型名得到 Kind
func ParseKind(requestType string) (Kind, bool) {
	for k := KindConnection; k < kindEnd; k++ {
		if names[k].request == requestType {
			return k, true
		}
	}
	return 0, false
}
