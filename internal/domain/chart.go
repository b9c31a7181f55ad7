package domain

// DefaultRings are the radial contour levels of a spider chart for
// per-record statistics such as the mean rlap.
var DefaultRings = []float64{4, 8, 12, 16}

// Axis is one arm of a spider chart.
type Axis struct {
	Name      string  `json:"name" yaml:"name" msgpack:"name"`
	Value     float64 `json:"value" yaml:"value" msgpack:"value"`
	Highlight bool    `json:"highlight,omitempty" yaml:"highlight,omitempty" msgpack:"highlight,omitempty"`
}

// Chart is the presentation model handed to chart renderers. It carries
// no rendering logic.
type Chart struct {
	// Title is drawn above the chart, e.g. the first-entry summary.
	Title string `json:"title" yaml:"title" msgpack:"title"`

	// Footer is drawn below the chart, e.g. "mean rlap for the first 10 entries".
	Footer string `json:"footer" yaml:"footer" msgpack:"footer"`

	// Axes lists the arms in drawing order, clockwise from the top.
	Axes []Axis `json:"axes" yaml:"axes" msgpack:"axes"`

	// Rings are the radial contour levels; the last one is the outer edge.
	Rings []float64 `json:"rings" yaml:"rings" msgpack:"rings"`

	// Inset is an optional secondary chart, used for the subtype drill-down
	// of a highlighted category.
	Inset *Chart `json:"inset,omitempty" yaml:"inset,omitempty" msgpack:"inset,omitempty"`
}

// NewChartAxes builds chart axes from a result, flagging the highlighted
// group if there is one.
func NewChartAxes(r Result) []Axis {
	highlighted, ok := Highlight(r)
	axes := make([]Axis, len(r.Groups))
	for i, g := range r.Groups {
		axes[i] = Axis{Name: g.Name, Value: g.Value, Highlight: ok && g.Name == highlighted}
	}
	return axes
}

// Outer returns the outermost ring, or the largest axis value when no
// rings are configured.
func (c Chart) Outer() float64 {
	if n := len(c.Rings); n > 0 {
		return c.Rings[n-1]
	}
	var m float64
	for _, a := range c.Axes {
		m = max(m, a.Value)
	}
	return m
}
