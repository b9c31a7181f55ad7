package stats

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/typereader/internal/domain"
)

var (
	_ domain.StatisticSource = (*Registry)(nil)

	// foldCaser is shared so lookups do not allocate a caser per call.
	foldCaser = cases.Fold()
)

// builtin maps every Kind to its implementation. It is fixed at init and
// never modified.
var builtin = map[Kind]domain.Reduction{
	KindMean:      mean,
	KindNanMean:   ignoringNaN(mean, nan()),
	KindSum:       sum,
	KindNanSum:    ignoringNaN(sum, 0),
	KindMedian:    median,
	KindNanMedian: ignoringNaN(median, nan()),
	KindMin:       minimum,
	KindMax:       maximum,
	KindStd:       std,
	KindNanStd:    ignoringNaN(std, nan()),
}

// Registry resolves reduction names to functions. Names are matched
// case-insensitively. A Registry is immutable and safe for concurrent use.
type Registry struct {
	kinds     []Kind
	functions map[string]domain.Reduction
}

// NewRegistry creates a registry restricted to kinds, or holding every
// supported kind when none are given.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	if len(kinds) == 0 {
		kinds = AllKinds()
	}
	r := &Registry{
		kinds:     make([]Kind, 0, len(kinds)),
		functions: make(map[string]domain.Reduction, len(kinds)),
	}
	for _, k := range kinds {
		fn, ok := builtin[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStatistic, k)
		}
		if _, dup := r.functions[string(k)]; dup {
			continue
		}
		r.kinds = append(r.kinds, k)
		r.functions[string(k)] = fn
	}
	return r, nil
}

// Default returns a registry with every supported kind.
func Default() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup implements domain.StatisticSource.
func (r *Registry) Lookup(name string) (domain.Reduction, error) {
	key := normalize(name)
	if fn, ok := r.functions[key]; ok {
		return fn, nil
	}
	if s := Suggest(key, r.Names()); s != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrUnknownStatistic, name, s)
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", domain.ErrUnknownStatistic, name, strings.Join(r.Names(), ", "))
}

// Kind returns the canonical Kind for name.
func (r *Registry) Kind(name string) (Kind, bool) {
	key := Kind(normalize(name))
	return key, slices.Contains(r.kinds, key)
}

// Names returns the supported names in documentation order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		names[i] = string(k)
	}
	return names
}

func normalize(name string) string {
	return foldCaser.String(strings.TrimSpace(name))
}

// Suggest returns the candidate closest to name by edit distance, or the
// empty string when nothing is within a third of the name's length.
func Suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	limit := max(1, utf8.RuneCountInString(name)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
