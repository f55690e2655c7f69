package queue

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

var (
	meter = metric.Must(global.Meter("settler/queue"))

	attrCompleted = attribute.Key("result").String("completed")
	attrFailed    = attribute.Key("result").String("failed")
	attrStalled   = attribute.Key("result").String("stalled")

	metricLeased   = meter.NewInt64Counter("settler_queue_leased_jobs_total")
	metricFinished = meter.NewInt64Counter("settler_queue_finished_jobs_total")
)
