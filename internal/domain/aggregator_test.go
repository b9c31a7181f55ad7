package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStats is a minimal StatisticSource so the domain tests do not depend
// on the infrastructure registry.
type fakeStats map[string]Reduction

func (f fakeStats) Lookup(name string) (Reduction, error) {
	fn, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatistic, name)
	}
	return fn, nil
}

func testStats() fakeStats {
	sum := func(v []float64) float64 {
		var s float64
		for _, x := range v {
			s += x
		}
		return s
	}
	return fakeStats{
		"sum":    sum,
		"nansum": sum,
		"mean":   func(v []float64) float64 { return sum(v) / float64(len(v)) },
	}
}

func rec(typ string, rlap float64) MatchRecord {
	return NewMatchRecord(typ, map[string]float64{FieldRLap: rlap, FieldZ: 0.02, FieldZErr: 0.004}, nil)
}

// scenarioRecords returns twelve matches; the first ten are the ranked
// listing used throughout the aggregation tests.
func scenarioRecords() []MatchRecord {
	types := []string{"Ia-norm", "Ia-norm", "Ia-91T", "II", "Ia-norm", "Ib", "Ia-pec", "II", "Ia-norm", "Ic", "IIP", "Gal"}
	rlaps := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0.5, 0.25}
	out := make([]MatchRecord, len(types))
	for i := range types {
		out[i] = rec(types[i], rlaps[i])
	}
	return out
}

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(DefaultTaxonomy(), testStats())
	require.NoError(t, err)
	return agg
}

func TestNewAggregatorRequiresDependencies(t *testing.T) {
	_, err := NewAggregator(nil, testStats())
	assert.Error(t, err)

	_, err = NewAggregator(DefaultTaxonomy(), nil)
	assert.Error(t, err)
}

func TestAggregateMeanScenario(t *testing.T) {
	agg := newTestAggregator(t)

	res, err := agg.Aggregate(scenarioRecords(), Request{Key: FieldRLap, Window: 10, Statistic: "mean"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ib", "Ia", "Ic", "II", "NotSN"}, res.Names(), "groups follow taxonomy order")
	assert.Equal(t, map[string]float64{
		"Ia":    6.5,
		"II":    5.0,
		"Ib":    5.0,
		"Ic":    1.0,
		"NotSN": 0,
	}, res.Map())
	assert.False(t, res.DrillDown())
	assert.Equal(t, "category", res.Mode())
}

func TestAggregateDefaultsKeyToRLap(t *testing.T) {
	agg := newTestAggregator(t)

	withKey, err := agg.Aggregate(scenarioRecords(), Request{Key: FieldRLap, Window: 10, Statistic: "sum"})
	require.NoError(t, err)
	withoutKey, err := agg.Aggregate(scenarioRecords(), Request{Window: 10, Statistic: "sum"})
	require.NoError(t, err)

	assert.Equal(t, withKey, withoutKey)
}

func TestAggregateOtherField(t *testing.T) {
	agg := newTestAggregator(t)

	res, err := agg.Aggregate(scenarioRecords(), Request{Key: FieldZ, Window: 3, Statistic: "mean"})
	require.NoError(t, err)

	v, ok := res.Value("Ia")
	require.True(t, ok)
	assert.InDelta(t, 0.02, v, 1e-12)
}

func TestAggregateWindowLargerThanData(t *testing.T) {
	agg := newTestAggregator(t)
	records := scenarioRecords()

	full, err := agg.Aggregate(records, Request{Window: len(records), Statistic: "sum"})
	require.NoError(t, err)
	over, err := agg.Aggregate(records, Request{Window: 1000, Statistic: "sum"})
	require.NoError(t, err)

	assert.Equal(t, full, over)
	notSN, _ := over.Value("NotSN")
	assert.Equal(t, 0.25, notSN, "Gal is the twelfth record")
}

func TestAggregateSumIsMonotonicInWindow(t *testing.T) {
	agg := newTestAggregator(t)
	records := scenarioRecords()

	prev := map[string]float64{}
	for w := 1; w <= len(records)+2; w++ {
		res, err := agg.Aggregate(records, Request{Window: w, Statistic: "sum"})
		require.NoError(t, err)
		for name, v := range res.Map() {
			assert.GreaterOrEqual(t, v, prev[name], "window %d group %s", w, name)
			assert.GreaterOrEqual(t, v, 0.0)
		}
		prev = res.Map()
	}
}

func TestAggregateKeySetIsStable(t *testing.T) {
	agg := newTestAggregator(t)

	datasets := map[string][]MatchRecord{
		"empty":         nil,
		"unknown types": {rec("Ia-unknown", 3), rec("SLSN", 2)},
		"scenario":      scenarioRecords(),
	}
	for name, records := range datasets {
		t.Run(name, func(t *testing.T) {
			res, err := agg.Aggregate(records, Request{Window: 5, Statistic: "mean"})
			require.NoError(t, err)
			assert.Equal(t, agg.Taxonomy().Categories(), res.Names())

			sub, err := agg.Aggregate(records, Request{Window: 5, Statistic: "mean", SubtypeOf: "II"})
			require.NoError(t, err)
			want, _ := agg.Taxonomy().SubtypesOf("II")
			assert.Equal(t, want, sub.Names())
		})
	}
}

func TestAggregateDrillDown(t *testing.T) {
	agg := newTestAggregator(t)

	res, err := agg.Aggregate(scenarioRecords(), Request{Window: 10, Statistic: "mean", SubtypeOf: "Ia"})
	require.NoError(t, err)

	assert.True(t, res.DrillDown())
	assert.Equal(t, "subtype", res.Mode())
	assert.Equal(t, "Ia", res.Category)
	assert.Equal(t, 8, res.Len())

	m := res.Map()
	assert.Equal(t, 6.75, m["Ia-norm"], "mean(10, 9, 6, 2)")
	assert.Equal(t, 8.0, m["Ia-91T"])
	assert.Equal(t, 4.0, m["Ia-pec"])
	assert.Equal(t, 0.0, m["Ia-91bg"])
	assert.Equal(t, 0.0, m["Ia"])
}

func TestAggregateErrors(t *testing.T) {
	agg := newTestAggregator(t)

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"zero window", Request{Window: 0, Statistic: "mean"}, ErrInvalidWindow},
		{"negative window", Request{Window: -3, Statistic: "mean"}, ErrInvalidWindow},
		{"unknown statistic", Request{Window: 10, Statistic: "kurtosis"}, ErrUnknownStatistic},
		{"unknown category", Request{Window: 10, Statistic: "mean", SubtypeOf: "Iax"}, ErrUnknownCategory},
		{"missing field", Request{Key: "age", Window: 10, Statistic: "mean"}, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := agg.Aggregate(scenarioRecords(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, res.Groups, "failed aggregations must not return partial results")
		})
	}
}

func TestAggregateMissingFieldReportsRank(t *testing.T) {
	agg := newTestAggregator(t)
	records := []MatchRecord{
		rec("Ia-norm", 5),
		NewMatchRecord("II", map[string]float64{FieldRLap: 4}, nil),
	}

	_, err := agg.Aggregate(records, Request{Key: FieldZ, Window: 2, Statistic: "mean"})
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Rank)
	assert.Equal(t, FieldZ, ferr.Field)
}

func TestAggregateIgnoresMissingFieldOutsideTaxonomy(t *testing.T) {
	agg := newTestAggregator(t)
	records := []MatchRecord{
		rec("Ia-norm", 5),
		NewMatchRecord("SLSN-I", map[string]float64{FieldRLap: 4}, nil),
	}

	res, err := agg.Aggregate(records, Request{Key: FieldZ, Window: 2, Statistic: "mean"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Len())
}

func TestAggregateIsIdempotent(t *testing.T) {
	agg := newTestAggregator(t)
	records := scenarioRecords()
	req := Request{Window: 7, Statistic: "mean"}

	first, err := agg.Aggregate(records, req)
	require.NoError(t, err)
	second, err := agg.Aggregate(records, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
