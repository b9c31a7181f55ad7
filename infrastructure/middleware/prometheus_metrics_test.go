package middleware

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/typereader/internal/ports"
)

// newTestMetrics registers collectors on a private registry so tests do
// not collide on the global one.
func newTestMetrics(t *testing.T) (*PrometheusMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPrometheusMetrics(reg), reg
}

func TestNewPrometheusMetrics(t *testing.T) {
	pm, _ := newTestMetrics(t)

	assert.NotNil(t, pm.aggregations, "aggregations should be initialized")
	assert.NotNil(t, pm.groupValue, "groupValue should be initialized")
	assert.NotNil(t, pm.recordsLoaded, "recordsLoaded should be initialized")
	assert.NotNil(t, pm.executionLatency, "executionLatency should be initialized")
	assert.NotNil(t, pm.operationCounter, "operationCounter should be initialized")
	assert.NotNil(t, pm.stateGauges, "stateGauges should be initialized")

	var _ ports.MetricsCollector = pm
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	pm, _ := newTestMetrics(t)

	labels := map[string]string{"mode": "category", "statistic": "mean"}
	pm.RecordCounter(MetricAggregations, 1, labels)
	pm.RecordCounter(MetricAggregations, 1, labels)
	pm.RecordCounter(MetricAggregations, 1, map[string]string{"mode": "subtype", "statistic": "sum", "status": "error"})

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.aggregations.WithLabelValues("category", "mean", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.aggregations.WithLabelValues("subtype", "sum", "error")))

	pm.RecordCounter("load", 1, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.operationCounter.WithLabelValues("load", "success")))
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm, _ := newTestMetrics(t)

	pm.RecordGauge(MetricGroupValue, 6.5, map[string]string{"group": "Ia"})
	pm.RecordGauge(MetricGroupValue, 6.75, map[string]string{"mode": "subtype", "group": "Ia-norm"})
	pm.RecordGauge(MetricRecordsLoaded, 12, nil)
	pm.RecordGauge("window", 10, nil)

	assert.Equal(t, 6.5, testutil.ToFloat64(pm.groupValue.WithLabelValues("category", "Ia")))
	assert.Equal(t, 6.75, testutil.ToFloat64(pm.groupValue.WithLabelValues("subtype", "Ia-norm")))
	assert.Equal(t, 12.0, testutil.ToFloat64(pm.recordsLoaded))
	assert.Equal(t, 10.0, testutil.ToFloat64(pm.stateGauges.WithLabelValues("window")))
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	pm, reg := newTestMetrics(t)

	pm.RecordLatency("aggregate", 25*time.Millisecond, nil)
	pm.RecordLatency("aggregate", 50*time.Millisecond, nil)

	count, err := testutil.GatherAndCount(reg, "typereader_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "one labelled histogram series")

	expected := `
# HELP typereader_records_loaded Number of match records in the most recently loaded listing.
# TYPE typereader_records_loaded gauge
typereader_records_loaded 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "typereader_records_loaded"))
}

func TestNewPrometheusMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusMetrics(reg)
	assert.Panics(t, func() { NewPrometheusMetrics(reg) })
}
