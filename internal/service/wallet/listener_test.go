package wallet

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mydev-wallet/internal/event"
	"mydev-wallet/internal/service/mq"
	"mydev-wallet/pkg/monitor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replayConsumer 依次投递 msgs，记录 handler 的返回值
type replayConsumer struct {
	msgs    []*mq.Message
	results []error
	topic   string
}

func (c *replayConsumer) Subscribe(_ context.Context, topic string, handler func(msg *mq.Message) error) error {
	c.topic = topic
	for _, m := range c.msgs {
		c.results = append(c.results, handler(m))
	}
	return nil
}

func (c *replayConsumer) Close() error { return nil }

func TestEventListener(t *testing.T) {
	good, err := json.Marshal(event.TransactionSignedEvent{TxID: "ab", Kind: "psbt", SignedAt: time.Now()})
	require.NoError(t, err)
	noTxID, err := json.Marshal(event.TransactionSignedEvent{Kind: "raw"})
	require.NoError(t, err)

	consumer := &replayConsumer{msgs: []*mq.Message{
		{ID: "1", Payload: good},
		{ID: "2", Payload: []byte("{not json")},
		{ID: "3", Payload: noTxID},
	}}
	metrics := monitor.NewBusinessMetrics(prometheus.NewRegistry())

	require.NoError(t, NewEventListener(consumer, metrics, nil).Start(context.Background()))
	assert.Equal(t, event.TopicTransactionSigned, consumer.topic)
	require.Len(t, consumer.results, 3)
	assert.NoError(t, consumer.results[0])
	assert.NoError(t, consumer.results[1])
	assert.Error(t, consumer.results[2])

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SignedEventsConsumed.WithLabelValues("psbt")))
}
