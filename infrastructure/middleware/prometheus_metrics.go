// Package middleware provides cross-cutting concerns for the aggregation engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/typereader/internal/ports"
)

// Metric names understood by PrometheusMetrics. Unknown counter and gauge
// names fall back to the generic operation and state vectors.
const (
	MetricAggregations  = "aggregations_total"
	MetricGroupValue    = "group_value"
	MetricRecordsLoaded = "records_loaded"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks aggregation counts and latency, the most recent value of every
// group, and the size of loaded listings.
type PrometheusMetrics struct {
	aggregations     *prometheus.CounterVec
	groupValue       *prometheus.GaugeVec
	recordsLoaded    prometheus.Gauge
	executionLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	stateGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// its collectors with reg. A nil reg uses the default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		aggregations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typereader",
				Name:      MetricAggregations,
				Help:      "Number of aggregations by grouping mode, statistic and outcome.",
			},
			[]string{"mode", "statistic", "status"},
		),
		groupValue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "typereader",
				Name:      MetricGroupValue,
				Help:      "Most recent aggregated value per category or subtype.",
			},
			[]string{"mode", "group"},
		),
		recordsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "typereader",
				Name:      MetricRecordsLoaded,
				Help:      "Number of match records in the most recently loaded listing.",
			},
		),
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "typereader",
				Name:      "operation_duration_seconds",
				Help:      "Execution time of load, aggregate and render operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typereader",
				Name:      "operations_total",
				Help:      "Total number of operations by name and outcome.",
			},
			[]string{"operation", "status"},
		),
		stateGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "typereader",
				Name:      "state",
				Help:      "Miscellaneous state values.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	status := labelOr(labels, "status", "success")

	switch metric {
	case MetricAggregations:
		pm.aggregations.WithLabelValues(
			labelOr(labels, "mode", "category"),
			labelOr(labels, "statistic", "unknown"),
			status,
		).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricGroupValue:
		pm.groupValue.WithLabelValues(
			labelOr(labels, "mode", "category"),
			labelOr(labels, "group", "unknown"),
		).Set(value)
	case MetricRecordsLoaded:
		pm.recordsLoaded.Set(value)
	default:
		pm.stateGauges.WithLabelValues(metric).Set(value)
	}
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return fallback
}
