package domain

// Highlight returns the single group of r with a strictly positive value
// when every other group is exactly zero. Renderers use it to emphasise
// that group and to trigger a subtype drill-down for it.
func Highlight(r Result) (string, bool) {
	return HighlightValues(r.Names(), r.Values())
}

// HighlightValues is Highlight over parallel name and value slices.
// Negative or NaN values disqualify the listing.
func HighlightValues(names []string, values []float64) (string, bool) {
	if len(names) != len(values) {
		return "", false
	}
	found := -1
	for i, v := range values {
		switch {
		case v == 0:
			continue
		case v > 0 && found < 0:
			found = i
		default:
			return "", false
		}
	}
	if found < 0 {
		return "", false
	}
	return names[found], true
}
