package application

import (
	"fmt"

	"github.com/ahrav/typereader/internal/domain"
)

// TopMatch is the best-ranked record of a listing, kept for captions.
type TopMatch struct {
	Type string   `json:"type" yaml:"type" msgpack:"type"`
	RLap float64  `json:"rlap" yaml:"rlap" msgpack:"rlap"`
	Z    *float64 `json:"z,omitempty" yaml:"z,omitempty" msgpack:"z,omitempty"`
	ZErr *float64 `json:"zerr,omitempty" yaml:"zerr,omitempty" msgpack:"zerr,omitempty"`
}

func newTopMatch(rec domain.MatchRecord) *TopMatch {
	top := &TopMatch{Type: rec.Type(), RLap: rec.RLap()}
	if z, ok := rec.Z(); ok {
		top.Z = &z
	}
	if zerr, ok := rec.ZErr(); ok {
		top.ZErr = &zerr
	}
	return top
}

// Summary is the outcome of one Summarize call: the category aggregate,
// its highlight, the optional subtype drill-down, and everything a chart
// caption needs.
type Summary struct {
	Target     string         `json:"target" yaml:"target" msgpack:"target"`
	Top        *TopMatch      `json:"top,omitempty" yaml:"top,omitempty" msgpack:"top,omitempty"`
	Key        string         `json:"key" yaml:"key" msgpack:"key"`
	Statistic  string         `json:"statistic" yaml:"statistic" msgpack:"statistic"`
	Window     uint64         `json:"window" yaml:"window" msgpack:"window"`
	Categories domain.Result  `json:"categories" yaml:"categories" msgpack:"categories"`
	Highlight  string         `json:"highlight,omitempty" yaml:"highlight,omitempty" msgpack:"highlight,omitempty"`
	Subtypes   *domain.Result `json:"subtypes,omitempty" yaml:"subtypes,omitempty" msgpack:"subtypes,omitempty"`
	Rings      []float64      `json:"rings" yaml:"rings" msgpack:"rings"`
}

// FirstEntryCaption describes the best match, e.g.
// "ZTF21abc first entry:\nIa-norm @ z=0.022 ± 0.003 | rlap 10.00".
func (s *Summary) FirstEntryCaption() string {
	if s.Top == nil {
		return fmt.Sprintf("%s: no matches", s.Target)
	}
	if s.Top.Z == nil {
		return fmt.Sprintf("%s first entry:\n%s | rlap %.2f", s.Target, s.Top.Type, s.Top.RLap)
	}
	zerr := 0.0
	if s.Top.ZErr != nil {
		zerr = *s.Top.ZErr
	}
	return fmt.Sprintf("%s first entry:\n%s @ z=%.3f ± %.3f | rlap %.2f", s.Target, s.Top.Type, *s.Top.Z, zerr, s.Top.RLap)
}

// FooterCaption names the aggregation, e.g. "mean rlap for the first 10 entries".
func (s *Summary) FooterCaption() string {
	return fmt.Sprintf("%s %s for the first %d entries", s.Statistic, s.Key, s.Window)
}

// Chart converts the summary into the renderer model. A subtype
// drill-down becomes the inset chart.
func (s *Summary) Chart() domain.Chart {
	chart := domain.Chart{
		Title:  s.FirstEntryCaption(),
		Footer: s.FooterCaption(),
		Axes:   domain.NewChartAxes(s.Categories),
		Rings:  s.Rings,
	}
	if s.Subtypes != nil {
		chart.Inset = &domain.Chart{
			Title: fmt.Sprintf("%s subtypes", s.Subtypes.Category),
			Axes:  domain.NewChartAxes(*s.Subtypes),
			Rings: s.Rings,
		}
	}
	return chart
}
