package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"mydev-wallet/internal/event"
	"mydev-wallet/internal/service/mq"
	"mydev-wallet/pkg/monitor"

	"go.uber.org/zap"
)

// EventListener 消费签名事件，用于审计日志和指标
type EventListener struct {
	consumer mq.Consumer
	metrics  *monitor.BusinessMetrics
	log      *zap.Logger
}

func NewEventListener(consumer mq.Consumer, metrics *monitor.BusinessMetrics, log *zap.Logger) *EventListener {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventListener{consumer: consumer, metrics: metrics, log: log}
}

// Start 阻塞直到 ctx 结束
func (l *EventListener) Start(ctx context.Context) error {
	l.log.Info("signed event listener started", zap.String("topic", event.TopicTransactionSigned))
	return l.consumer.Subscribe(ctx, event.TopicTransactionSigned, l.handle)
}

func (l *EventListener) handle(msg *mq.Message) error {
	var evt event.TransactionSignedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		// 格式错误的消息重试也不会成功，直接 ACK
		l.log.Error("bad signed event payload", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}
	if evt.TxID == "" {
		return fmt.Errorf("signed event %s without txid", msg.ID)
	}

	l.metrics.EventConsumed(evt.Kind)
	l.log.Info("transaction signed",
		zap.String("request_id", evt.RequestID),
		zap.String("txid", evt.TxID),
		zap.String("kind", evt.Kind),
		zap.Int("inputs", evt.Inputs),
		zap.String("amount", evt.Amount),
		zap.String("fee", evt.Fee),
	)
	return nil
}
