// Package stats provides the named reductions available to the aggregation
// engine, mirroring the NumPy functions SNID users are familiar with.
package stats

import (
	"math"
	"slices"
	"sort"
)

// Kind names a supported reduction.
type Kind string

// Supported reductions. Plain kinds propagate NaN; the nan-prefixed kinds
// ignore NaN values.
const (
	KindMean      Kind = "mean"
	KindNanMean   Kind = "nanmean"
	KindSum       Kind = "sum"
	KindNanSum    Kind = "nansum"
	KindMedian    Kind = "median"
	KindNanMedian Kind = "nanmedian"
	KindMin       Kind = "min"
	KindMax       Kind = "max"
	KindStd       Kind = "std"
	KindNanStd    Kind = "nanstd"
)

// AllKinds returns every supported reduction in documentation order.
func AllKinds() []Kind {
	return []Kind{
		KindMean, KindNanMean,
		KindSum, KindNanSum,
		KindMedian, KindNanMedian,
		KindMin, KindMax,
		KindStd, KindNanStd,
	}
}

// IsSumLike reports whether k grows with the number of values, which is
// what chart ring scaling cares about.
func (k Kind) IsSumLike() bool { return k == KindSum || k == KindNanSum }

func mean(values []float64) float64 {
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func median(values []float64) float64 {
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	sorted := slices.Clone(values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minimum(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		m = math.Min(m, v)
	}
	return m
}

func maximum(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		m = math.Max(m, v)
	}
	return m
}

// std is the population standard deviation (ddof=0).
func std(values []float64) float64 {
	mu := mean(values)
	var ss float64
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ignoringNaN wraps a reduction so NaN inputs are skipped. empty is
// returned when nothing is left.
func ignoringNaN(f func([]float64) float64, empty float64) func([]float64) float64 {
	return func(values []float64) float64 {
		clean := dropNaN(values)
		if len(clean) == 0 {
			return empty
		}
		return f(clean)
	}
}

func nan() float64 { return math.NaN() }
