package monitor

import (
	"strconv"
	"time"

	"mydev-wallet/pkg/errno"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	SignRequestsTotal    *prometheus.CounterVec
	SignDuration         *prometheus.HistogramVec
	SpentOutputsCached   prometheus.Counter
	RelayQueueDepth      prometheus.Gauge
	SignedEventsConsumed *prometheus.CounterVec
}

// Global Metrics Instance，未 Init 时为 nil，所有方法都可以在 nil 上调用
var Business *BusinessMetrics

func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)
	return &BusinessMetrics{
		SignRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_sign_requests_total",
			Help: "Signing operations by operation and result code",
		}, []string{"operation", "code"}),
		SignDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_sign_duration_seconds",
			Help:    "Duration of signing operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		SpentOutputsCached: factory.NewCounter(prometheus.CounterOpts{
			Name: "wallet_spent_outputs_cached_total",
			Help: "Inputs appended to the spent-utxo cache",
		}),
		RelayQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_relay_queue_depth",
			Help: "Requests waiting in or being processed by the relay router",
		}),
		SignedEventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_signed_tx_events_consumed_total",
			Help: "Signed-transaction events read back from the message queue",
		}, []string{"kind"}),
	}
}

// ObserveSign 记录一次签名操作，code 取自 errno
func (m *BusinessMetrics) ObserveSign(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	code, _ := errno.Decode(err)
	m.SignRequestsTotal.WithLabelValues(operation, strconv.Itoa(code)).Inc()
	m.SignDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *BusinessMetrics) AddSpentOutputs(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SpentOutputsCached.Add(float64(n))
}

func (m *BusinessMetrics) SetRelayQueueDepth(n int) {
	if m == nil {
		return
	}
	m.RelayQueueDepth.Set(float64(n))
}

func (m *BusinessMetrics) EventConsumed(kind string) {
	if m == nil {
		return
	}
	m.SignedEventsConsumed.WithLabelValues(kind).Inc()
}
