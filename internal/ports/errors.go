package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors.
var (
	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrUnsupportedFormat indicates an unknown output or config format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// SourceError represents a failure to read or parse a match listing.
type SourceError struct {
	// Path is the file that was being read.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for SourceError.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source error: path=%s, err=%v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError creates a new SourceError with the given details.
func NewSourceError(path string, err error) *SourceError {
	return &SourceError{Path: path, Err: err}
}

// RenderError represents a failure to render or encode output.
type RenderError struct {
	// Format is the output format, e.g. "svg" or "msgpack".
	Format string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for RenderError.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: format=%s, err=%v", e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error { return e.Err }

// NewRenderError creates a new RenderError with the given details.
func NewRenderError(format string, err error) *RenderError {
	return &RenderError{Format: format, Err: err}
}

// MetricsError represents an error from metrics collection operations.
type MetricsError struct {
	// Metric is the name of the metric that was being collected when the
	// error occurred.
	Metric string

	// Operation is the name of the metrics operation that failed.
	Operation string

	// Err is the underlying error that caused the metrics operation to fail.
	Err error
}

// Error implements the error interface for MetricsError.
func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError creates a new MetricsError with the given details.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{
		Metric:    metric,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
