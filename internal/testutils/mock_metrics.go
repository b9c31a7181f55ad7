package testutils

import (
	"maps"
	"sync"
	"time"
)

// MetricCall is one call captured by MockMetricsCollector.
type MetricCall struct {
	// Kind is "latency", "counter" or "gauge".
	Kind string
	// Name is the operation or metric name.
	Name string
	// Value is the counter increment, gauge value, or latency in seconds.
	Value float64
	// Labels is a copy of the labels passed with the call.
	Labels map[string]string
}

// MockMetricsCollector implements ports.MetricsCollector by recording every
// call so tests can assert on what was reported.
// It is safe for concurrent use.
type MockMetricsCollector struct {
	mu    sync.Mutex
	calls []MetricCall
}

// NewMockMetricsCollector creates an empty collector.
func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{}
}

// RecordLatency implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.record(MetricCall{Kind: "latency", Name: operation, Value: duration.Seconds(), Labels: maps.Clone(labels)})
}

// RecordCounter implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.record(MetricCall{Kind: "counter", Name: metric, Value: value, Labels: maps.Clone(labels)})
}

// RecordGauge implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.record(MetricCall{Kind: "gauge", Name: metric, Value: value, Labels: maps.Clone(labels)})
}

func (m *MockMetricsCollector) record(c MetricCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of all recorded calls in order.
func (m *MockMetricsCollector) Calls() []MetricCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MetricCall(nil), m.calls...)
}

// Named returns the recorded calls of the given kind and name.
func (m *MockMetricsCollector) Named(kind, name string) []MetricCall {
	var out []MetricCall
	for _, c := range m.Calls() {
		if c.Kind == kind && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Gauge returns the last value set for the gauge name whose labels include
// every pair in match.
func (m *MockMetricsCollector) Gauge(name string, match map[string]string) (float64, bool) {
	calls := m.Named("gauge", name)
	for i := len(calls) - 1; i >= 0; i-- {
		if labelsMatch(calls[i].Labels, match) {
			return calls[i].Value, true
		}
	}
	return 0, false
}

// CounterTotal sums the increments of counter name whose labels include
// every pair in match.
func (m *MockMetricsCollector) CounterTotal(name string, match map[string]string) float64 {
	var total float64
	for _, c := range m.Named("counter", name) {
		if labelsMatch(c.Labels, match) {
			total += c.Value
		}
	}
	return total
}

func labelsMatch(labels, match map[string]string) bool {
	for k, v := range match {
		if labels[k] != v {
			return false
		}
	}
	return true
}
