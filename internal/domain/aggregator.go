package domain

import (
	"errors"
	"fmt"
)

// Reduction collapses a non-empty sequence of values into one scalar.
// Implementations must not retain or modify the slice.
type Reduction func(values []float64) float64

// StatisticSource resolves reduction names such as "mean" or "nansum" to
// their implementation. Lookup fails with ErrUnknownStatistic for names it
// does not support.
type StatisticSource interface {
	Lookup(name string) (Reduction, error)
}

// Request describes a single aggregation over a match listing.
type Request struct {
	// Key is the numeric field to reduce. Empty means FieldRLap.
	Key string

	// Window bounds how many leading (best) records participate. Values
	// larger than the listing use the whole listing.
	Window int

	// Statistic names the reduction applied to each group.
	Statistic string

	// SubtypeOf switches to drill-down mode: groups become the subtypes of
	// this category instead of the categories themselves.
	SubtypeOf string
}

// GroupValue is the reduced value of one group.
type GroupValue struct {
	Name  string  `json:"name" yaml:"name" msgpack:"name"`
	Value float64 `json:"value" yaml:"value" msgpack:"value"`
}

// Result holds one value per declared group, in taxonomy order.
type Result struct {
	// Category is the drill-down category, or empty for the category mode.
	Category string `json:"category,omitempty" yaml:"category,omitempty" msgpack:"category,omitempty"`

	// Groups lists every category (or subtype) with its value, including
	// groups with no matching records, which hold exactly zero.
	Groups []GroupValue `json:"groups" yaml:"groups" msgpack:"groups"`
}

// Len returns the number of groups.
func (r Result) Len() int { return len(r.Groups) }

// DrillDown reports whether the result is grouped by subtype.
func (r Result) DrillDown() bool { return r.Category != "" }

// Mode returns "subtype" for a drill-down result and "category" otherwise.
func (r Result) Mode() string {
	if r.DrillDown() {
		return "subtype"
	}
	return "category"
}

// Names returns group names in order.
func (r Result) Names() []string {
	names := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		names[i] = g.Name
	}
	return names
}

// Values returns group values in the same order as Names.
func (r Result) Values() []float64 {
	values := make([]float64, len(r.Groups))
	for i, g := range r.Groups {
		values[i] = g.Value
	}
	return values
}

// Value returns the value of the named group.
func (r Result) Value(name string) (float64, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g.Value, true
		}
	}
	return 0, false
}

// Map returns the result as a name to value map.
func (r Result) Map() map[string]float64 {
	m := make(map[string]float64, len(r.Groups))
	for _, g := range r.Groups {
		m[g.Name] = g.Value
	}
	return m
}

// Aggregator reduces an rlap-ordered match listing to one value per
// taxonomy category, or per subtype of one category.
// It holds no per-call state and may be shared between Readers.
type Aggregator struct {
	taxonomy *Taxonomy
	stats    StatisticSource
}

// NewAggregator creates an Aggregator over the given taxonomy and
// statistic registry.
func NewAggregator(taxonomy *Taxonomy, stats StatisticSource) (*Aggregator, error) {
	if taxonomy == nil {
		return nil, errors.New("taxonomy cannot be nil")
	}
	if stats == nil {
		return nil, errors.New("statistic source cannot be nil")
	}
	return &Aggregator{taxonomy: taxonomy, stats: stats}, nil
}

// Taxonomy returns the taxonomy the aggregator groups by.
func (a *Aggregator) Taxonomy() *Taxonomy { return a.taxonomy }

// Aggregate reduces the first req.Window records. All inputs are validated
// before any group is computed, so a failed call never yields a partial
// result. Records whose type is not in the taxonomy are ignored.
func (a *Aggregator) Aggregate(records []MatchRecord, req Request) (Result, error) {
	key := req.Key
	if key == "" {
		key = FieldRLap
	}
	if req.Window <= 0 {
		return Result{}, fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidWindow, req.Window)
	}
	reduce, err := a.stats.Lookup(req.Statistic)
	if err != nil {
		return Result{}, err
	}

	groups, groupOf, err := a.grouping(req.SubtypeOf)
	if err != nil {
		return Result{}, err
	}

	prefix := records[:min(req.Window, len(records))]
	buckets := make(map[string][]float64, len(groups))
	for rank, rec := range prefix {
		g, ok := groupOf(rec.Type())
		if !ok {
			continue
		}
		v, err := rec.Value(key)
		if err != nil {
			return Result{}, NewFieldError(rank, key, err)
		}
		buckets[g] = append(buckets[g], v)
	}

	res := Result{
		Category: req.SubtypeOf,
		Groups:   make([]GroupValue, 0, len(groups)),
	}
	for _, g := range groups {
		values := buckets[g]
		if len(values) == 0 {
			res.Groups = append(res.Groups, GroupValue{Name: g, Value: 0})
			continue
		}
		res.Groups = append(res.Groups, GroupValue{Name: g, Value: reduce(values)})
	}
	return res, nil
}

// grouping returns the ordered group names and a function mapping a
// subtype label to its group.
func (a *Aggregator) grouping(subtypeOf string) ([]string, func(string) (string, bool), error) {
	if subtypeOf == "" {
		return a.taxonomy.Categories(), a.taxonomy.CategoryOf, nil
	}

	labels, err := a.taxonomy.SubtypesOf(subtypeOf)
	if err != nil {
		return nil, nil, err
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return labels, func(label string) (string, bool) {
		_, ok := set[label]
		return label, ok
	}, nil
}
