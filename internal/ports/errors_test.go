package ports

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/typereader/internal/domain"
)

func TestSourceError(t *testing.T) {
	err := NewSourceError("snid.output", fs.ErrNotExist)

	assert.Equal(t, "source error: path=snid.output, err=file does not exist", err.Error())
	assert.Equal(t, "snid.output", err.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRenderError(t *testing.T) {
	err := NewRenderError("svg", ErrUnsupportedFormat)

	assert.Equal(t, "render error: format=svg, err=unsupported format", err.Error())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestMetricsError(t *testing.T) {
	underlying := errors.New("registry closed")
	err := NewMetricsError("typereader_aggregations_total", "RecordCounter", underlying)

	assert.Equal(t, "metrics error: operation=RecordCounter, metric=typereader_aggregations_total, err=registry closed", err.Error())
	assert.True(t, errors.Is(err, underlying))
}

func TestConfigError(t *testing.T) {
	t.Run("wraps sentinel", func(t *testing.T) {
		err := NewConfigError("defaults.window", domain.ErrInvalidWindow)

		assert.Equal(t, "config error: key=defaults.window, err=invalid window", err.Error())
		assert.True(t, errors.Is(err, domain.ErrInvalidWindow))
	})

	t.Run("errors.As", func(t *testing.T) {
		var wrapped error = NewConfigError("taxonomy", ErrConfigNotFound)
		var cerr *ConfigError
		assert.True(t, errors.As(wrapped, &cerr))
		assert.Equal(t, "taxonomy", cerr.ConfigKey)
	})
}
