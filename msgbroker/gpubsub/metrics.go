package gpubsub

import (
	"context"
	"time"

	"github.com/textileio/settlement-core/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// brokerMetrics records message traffic per topic. The zero value records
// nothing, which is what a broker has before initMetrics runs.
type brokerMetrics struct {
	enabled   bool
	published metric.Int64Counter
	handled   metric.Int64Counter
	handleDur metric.Int64Histogram
}

func (m *brokerMetrics) onPublish(ctx context.Context, topic string, err error) {
	if !m.enabled {
		return
	}
	metrics.MetricIncrCounter(ctx, err, m.published, attribute.String("topic", topic))
}

func (m *brokerMetrics) onHandle(ctx context.Context, topic string, took time.Duration, err error) {
	if !m.enabled {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("topic", topic), metrics.Status(err)}
	m.handled.Add(ctx, 1, attrs...)
	m.handleDur.Record(ctx, took.Milliseconds(), attrs...)
}

func (p *PubsubMsgBroker) initMetrics(meter metric.MeterMust) {
	p.metrics = brokerMetrics{
		enabled:   true,
		published: meter.NewInt64Counter("settler_msgbroker_published_messages_total"),
		handled:   meter.NewInt64Counter("settler_msgbroker_handled_messages_total"),
		handleDur: meter.NewInt64Histogram("settler_msgbroker_handle_duration_millis"),
	}
}
