// Package render draws spider charts and encodes aggregation summaries.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

var _ ports.ChartRenderer = (*SVGRenderer)(nil)

// SVGOptions controls the look of an SVG spider chart.
type SVGOptions struct {
	// Size is the width of the image in pixels. The height adds room for
	// the title and footer.
	Size int

	// FillColor is used for the polygon outline and fill.
	FillColor string

	// HighlightColor is used for the label of a highlighted axis.
	HighlightColor string

	// FillOpacity is the polygon fill opacity.
	FillOpacity float64
}

// DefaultSVGOptions returns a 360 pixel chart in the default blue.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Size:           360,
		FillColor:      "#1f77b4",
		HighlightColor: "#1f77b4",
		FillOpacity:    0.1,
	}
}

// SVGRenderer draws a Chart as a standalone SVG document. An inset chart is
// drawn below the main one at the same size.
type SVGRenderer struct {
	opts SVGOptions
}

// NewSVGRenderer creates an SVG renderer. Zero-valued options fall back to
// DefaultSVGOptions.
func NewSVGRenderer(opts SVGOptions) *SVGRenderer {
	def := DefaultSVGOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.FillColor == "" {
		opts.FillColor = def.FillColor
	}
	if opts.HighlightColor == "" {
		opts.HighlightColor = def.HighlightColor
	}
	if opts.FillOpacity <= 0 {
		opts.FillOpacity = def.FillOpacity
	}
	return &SVGRenderer{opts: opts}
}

// panelHeight is the vertical space one chart takes, including captions.
func (r *SVGRenderer) panelHeight() float64 { return float64(r.opts.Size) * 7 / 6 }

// Render implements ports.ChartRenderer.
func (r *SVGRenderer) Render(w io.Writer, chart domain.Chart) error {
	if len(chart.Axes) == 0 {
		return ports.NewRenderError("svg", fmt.Errorf("chart has no axes"))
	}

	panels := 1
	if chart.Inset != nil {
		if len(chart.Inset.Axes) == 0 {
			return ports.NewRenderError("svg", fmt.Errorf("inset chart has no axes"))
		}
		panels = 2
	}
	width := float64(r.opts.Size)
	height := r.panelHeight() * float64(panels)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")

	r.panel(bw, chart, 0)
	if chart.Inset != nil {
		r.panel(bw, *chart.Inset, r.panelHeight())
	}

	bw.WriteString("</svg>\n")
	if err := bw.Flush(); err != nil {
		return ports.NewRenderError("svg", err)
	}
	return nil
}

// panel draws one chart with its top edge at offsetY.
func (r *SVGRenderer) panel(w *bufio.Writer, chart domain.Chart, offsetY float64) {
	size := float64(r.opts.Size)
	cx := size / 2
	cy := offsetY + size*0.62
	radius := size * 0.36
	outer := chart.Outer()
	if outer <= 0 || math.IsNaN(outer) {
		outer = 1
	}

	if chart.Title != "" {
		for i, line := range strings.Split(chart.Title, "\n") {
			fmt.Fprintf(w, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" fill="%s">%s</text>`+"\n",
				cx, offsetY+16+float64(i)*14, r.opts.FillColor, html.EscapeString(line))
		}
	}

	// Radial contours.
	for _, ring := range chart.Rings {
		rr := radius * clamp(ring/outer)
		fmt.Fprintf(w, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#cccccc" stroke-width="0.8"/>`+"\n", cx, cy, rr)
		fmt.Fprintf(w, `<text x="%.1f" y="%.1f" font-size="9" fill="#b3b3b3">%s</text>`+"\n",
			cx+2, cy-rr-2, formatTick(ring))
	}

	n := len(chart.Axes)
	points := make([]string, 0, n)
	for i, axis := range chart.Axes {
		theta := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(theta)

		ex, ey := cx+radius*sin, cy-radius*cos
		fmt.Fprintf(w, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc" stroke-width="0.8"/>`+"\n", cx, cy, ex, ey)

		v := axis.Value
		if math.IsNaN(v) {
			v = 0
		}
		pr := radius * clamp(v/outer)
		points = append(points, fmt.Sprintf("%.1f,%.1f", cx+pr*sin, cy-pr*cos))

		lx, ly := cx+(radius+14)*sin, cy-(radius+14)*cos+4
		color, weight, fontSize := "#808080", "normal", 11.0
		if axis.Highlight {
			color, weight, fontSize = r.opts.HighlightColor, "bold", 13.2
		}
		fmt.Fprintf(w, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.1f" font-weight="%s" fill="%s">%s</text>`+"\n",
			lx, ly, fontSize, weight, color, html.EscapeString(axis.Name))
	}

	fmt.Fprintf(w, `<polygon points="%s" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1.5"/>`+"\n",
		strings.Join(points, " "), r.opts.FillColor, r.opts.FillOpacity, r.opts.FillColor)

	if chart.Footer != "" {
		fmt.Fprintf(w, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" font-style="italic" fill="black">%s</text>`+"\n",
			cx, offsetY+r.panelHeight()-8, html.EscapeString(chart.Footer))
	}
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2g", v)
}
