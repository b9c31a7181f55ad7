package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/typereader/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestSummary_Captions(t *testing.T) {
	tests := []struct {
		name string
		top  *TopMatch
		want string
	}{
		{
			name: "with redshift",
			top:  &TopMatch{Type: "Ia-norm", RLap: 10, Z: ptr(0.0221), ZErr: ptr(0.0034)},
			want: "SN2024abc first entry:\nIa-norm @ z=0.022 ± 0.003 | rlap 10.00",
		},
		{
			name: "without redshift",
			top:  &TopMatch{Type: "II", RLap: 7.25},
			want: "SN2024abc first entry:\nII | rlap 7.25",
		},
		{
			name: "no matches",
			want: "SN2024abc: no matches",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Summary{Target: "SN2024abc", Top: tt.top}
			assert.Equal(t, tt.want, s.FirstEntryCaption())
		})
	}

	s := &Summary{Key: "rlap", Statistic: "nanmean", Window: 10}
	assert.Equal(t, "nanmean rlap for the first 10 entries", s.FooterCaption())
}

func TestSummary_Chart(t *testing.T) {
	subtypes := domain.Result{
		Category: "Ia",
		Groups:   []domain.GroupValue{{Name: "Ia", Value: 0}, {Name: "Ia-norm", Value: 19}},
	}
	s := &Summary{
		Target:    "SN2024abc",
		Key:       "rlap",
		Statistic: "sum",
		Window:    3,
		Categories: domain.Result{Groups: []domain.GroupValue{
			{Name: "Ib", Value: 0}, {Name: "Ia", Value: 27},
		}},
		Highlight: "Ia",
		Subtypes:  &subtypes,
		Rings:     []float64{12, 24},
	}

	chart := s.Chart()
	assert.Equal(t, "sum rlap for the first 3 entries", chart.Footer)
	assert.Equal(t, []float64{12, 24}, chart.Rings)
	require.Len(t, chart.Axes, 2)
	assert.False(t, chart.Axes[0].Highlight)
	assert.True(t, chart.Axes[1].Highlight)

	require.NotNil(t, chart.Inset)
	assert.Equal(t, "Ia subtypes", chart.Inset.Title)
	require.Len(t, chart.Inset.Axes, 2)
	assert.True(t, chart.Inset.Axes[1].Highlight)

	s.Subtypes = nil
	assert.Nil(t, s.Chart().Inset)
}
