package application

import (
	"github.com/ahrav/typereader/infrastructure/stats"
	"github.com/ahrav/typereader/internal/domain"
)

// Config is the complete configuration of the type reader: the taxonomy
// to group by, the default aggregation request, and chart settings.
// It is decoded from YAML or TOML and validated before use.
type Config struct {
	// Version specifies the configuration schema version using semantic
	// versioning.
	Version string `yaml:"version" toml:"version" validate:"required,semver"`
	// Taxonomy lists the coarse categories in chart order. An empty list
	// selects the built-in SNID classification.
	Taxonomy []CategoryConfig `yaml:"taxonomy" toml:"taxonomy" validate:"omitempty,min=1,max=32,dive"`
	// Defaults holds the aggregation parameters used when the caller does
	// not override them.
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults"`
	// Chart controls radial contour levels and image size.
	Chart ChartConfig `yaml:"chart" toml:"chart"`
}

// CategoryConfig declares one coarse category and its subtype labels.
type CategoryConfig struct {
	// Name is the category shown on the chart axis, e.g. "Ia".
	Name string `yaml:"name" toml:"name" validate:"required,min=1,max=64"`
	// Subtypes are the SNID type labels grouped under Name.
	Subtypes []string `yaml:"subtypes" toml:"subtypes" validate:"required,min=1,dive,max=64"`
}

// DefaultsConfig holds the default aggregation request.
type DefaultsConfig struct {
	// Key is the numeric listing column to reduce.
	Key string `yaml:"key" toml:"key" validate:"required,fieldname"`
	// Window is the number of leading matches considered.
	Window int `yaml:"window" toml:"window" validate:"required,min=1,max=100000"`
	// Statistic is the reduction applied per group.
	Statistic string `yaml:"statistic" toml:"statistic" validate:"required,statistic"`
	// DrillDown enables the subtype breakdown of a uniquely highlighted
	// category.
	DrillDown bool `yaml:"drill_down" toml:"drill_down"`
}

// ChartConfig controls chart scaling and size.
type ChartConfig struct {
	// Rings are the radial contour levels, increasing; the last is the
	// outer edge.
	Rings []float64 `yaml:"rings" toml:"rings" validate:"required,min=1,max=16,dive,gt=0"`
	// ScaleSumRings multiplies the rings by the window for sum-like
	// statistics, whose values grow with the number of matches.
	ScaleSumRings bool `yaml:"scale_sum_rings" toml:"scale_sum_rings"`
	// Size is the SVG width in pixels.
	Size int `yaml:"size" toml:"size" validate:"omitempty,min=120,max=4096"`
	// BarWidth is the terminal bar width in cells.
	BarWidth int `yaml:"bar_width" toml:"bar_width" validate:"omitempty,min=4,max=200"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultsConfig{
			Key:       domain.FieldRLap,
			Window:    10,
			Statistic: string(stats.KindMean),
			DrillDown: true,
		},
		Chart: ChartConfig{
			Rings:         append([]float64(nil), domain.DefaultRings...),
			ScaleSumRings: true,
			Size:          360,
			BarWidth:      40,
		},
	}
}

// Categories converts the configured taxonomy to domain categories,
// falling back to the built-in classification.
func (c *Config) Categories() []domain.Category {
	if len(c.Taxonomy) == 0 {
		return domain.DefaultCategories()
	}
	out := make([]domain.Category, len(c.Taxonomy))
	for i, cat := range c.Taxonomy {
		out[i] = domain.Category{Name: cat.Name, Subtypes: append([]string(nil), cat.Subtypes...)}
	}
	return out
}
