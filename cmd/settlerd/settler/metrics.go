package settler

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

const prefix = "settler"

var (
	meter = metric.Must(global.Meter(prefix))

	attrBilling = attribute.Key("status").String("billing_error")

	metricScans       = meter.NewInt64Counter(prefix + "_scans_total")
	metricEnqueued    = meter.NewInt64Counter(prefix + "_enqueued_jobs_total")
	metricCharges     = meter.NewInt64Counter(prefix + "_charges_total")
	metricChargedCent = meter.NewInt64Counter(prefix + "_charged_minor_units_total")
	metricSettled     = meter.NewInt64Counter(prefix + "_settled_auctions_total")
	metricJobs        = meter.NewInt64Counter(prefix + "_jobs_total")
	metricQueueEvents = meter.NewInt64Counter(prefix + "_queue_events_total")
)
