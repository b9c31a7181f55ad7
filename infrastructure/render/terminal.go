package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

var _ ports.ChartRenderer = (*TerminalRenderer)(nil)

// TerminalRenderer draws a Chart as one horizontal bar per axis, scaled to
// the outermost ring.
type TerminalRenderer struct {
	width     int
	title     lipgloss.Style
	label     lipgloss.Style
	highlight lipgloss.Style
	bar       lipgloss.Style
	footer    lipgloss.Style
}

// NewTerminalRenderer creates a renderer whose bars are at most width cells.
func NewTerminalRenderer(width int) *TerminalRenderer {
	if width <= 0 {
		width = 40
	}
	return &TerminalRenderer{
		width:     width,
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		bar:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		footer:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
	}
}

// Render implements ports.ChartRenderer.
func (r *TerminalRenderer) Render(w io.Writer, chart domain.Chart) error {
	if len(chart.Axes) == 0 {
		return ports.NewRenderError("terminal", fmt.Errorf("chart has no axes"))
	}
	if _, err := io.WriteString(w, r.render(chart)); err != nil {
		return ports.NewRenderError("terminal", err)
	}
	return nil
}

func (r *TerminalRenderer) render(chart domain.Chart) string {
	var sb strings.Builder
	if chart.Title != "" {
		sb.WriteString(r.title.Render(chart.Title))
		sb.WriteString("\n\n")
	}

	labelWidth := 0
	for _, a := range chart.Axes {
		labelWidth = max(labelWidth, lipgloss.Width(a.Name))
	}
	outer := chart.Outer()

	for _, a := range chart.Axes {
		style := r.label
		marker := " "
		if a.Highlight {
			style = r.highlight
			marker = "*"
		}
		name := style.Width(labelWidth).Render(a.Name)
		fmt.Fprintf(&sb, "%s %s %s %s\n", marker, name, r.bar.Render(r.barFor(a.Value, outer)), formatValue(a.Value))
	}

	if chart.Footer != "" {
		sb.WriteString("\n")
		sb.WriteString(r.footer.Render(chart.Footer))
		sb.WriteString("\n")
	}
	if chart.Inset != nil && len(chart.Inset.Axes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.render(*chart.Inset))
	}
	return sb.String()
}

func (r *TerminalRenderer) barFor(v, outer float64) string {
	if outer <= 0 || math.IsNaN(v) || v <= 0 {
		return strings.Repeat("·", r.width)
	}
	n := int(math.Round(math.Min(v/outer, 1) * float64(r.width)))
	return strings.Repeat("█", n) + strings.Repeat("·", r.width-n)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
