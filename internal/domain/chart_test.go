package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChartAxes(t *testing.T) {
	highlighted := Result{Groups: []GroupValue{{"Ib", 0}, {"Ia", 3.5}, {"Ic", 0}}}
	axes := NewChartAxes(highlighted)
	assert.Equal(t, []Axis{
		{Name: "Ib"},
		{Name: "Ia", Value: 3.5, Highlight: true},
		{Name: "Ic"},
	}, axes)

	mixed := Result{Groups: []GroupValue{{"Ib", 1}, {"Ia", 3.5}}}
	for _, a := range NewChartAxes(mixed) {
		assert.False(t, a.Highlight, a.Name)
	}
}

func TestChartOuter(t *testing.T) {
	assert.Equal(t, 16.0, Chart{Rings: DefaultRings}.Outer())
	assert.Equal(t, 7.0, Chart{Axes: []Axis{{Value: 2}, {Value: 7}}}.Outer())
	assert.Zero(t, Chart{}.Outer())
}
