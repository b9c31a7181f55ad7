// Package ports defines the interfaces that form the contract between the
// domain/application layers and the infrastructure layer.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ahrav/typereader/internal/domain"
)

// MatchSource loads an rlap-ordered match listing.
// Implementations parse a specific classifier output format.
type MatchSource interface {
	// Load reads the listing at path. Records are returned best match first.
	Load(ctx context.Context, path string) ([]domain.MatchRecord, error)
}

// ChartRenderer draws a spider chart.
type ChartRenderer interface {
	// Render writes chart to w in the renderer's output format.
	Render(w io.Writer, chart domain.Chart) error
}

// Encoder serialises aggregation summaries for machine consumption.
type Encoder interface {
	// Format returns the short format name, e.g. "json".
	Format() string

	// Encode writes v to w.
	Encode(w io.Writer, v any) error
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

// RecordLatency implements MetricsCollector.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector.
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
