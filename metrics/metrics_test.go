package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

func TestStatus(t *testing.T) {
	require.Equal(t, AttrOK, Status(nil))
	require.Equal(t, AttrError, Status(errors.New("failed")))
}

func TestMetricIncrCounter(t *testing.T) {
	c := metric.Must(global.Meter("metrics-test")).NewInt64Counter("metrics_test_total")
	require.NotPanics(t, func() {
		MetricIncrCounter(context.Background(), nil, c)
		MetricIncrCounter(context.Background(), errors.New("failed"), c)
	})
}
