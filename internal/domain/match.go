package domain

import "maps"

// Well-known fields of a SNID template match.
const (
	FieldType = "type"
	FieldRLap = "rlap"
	FieldZ    = "z"
	FieldZErr = "zerr"
)

// MatchRecord is one row of the rlap-ordered template listing: a candidate
// template match with its type label and numeric measurements.
// A MatchRecord is immutable once created; its identity is its rank in the
// listing, which is ordered best match first.
type MatchRecord struct {
	typ    string
	values map[string]float64
	text   map[string]string
}

// NewMatchRecord creates a MatchRecord with the given type label, numeric
// fields and free-text columns. Both maps are copied.
func NewMatchRecord(typ string, values map[string]float64, text map[string]string) MatchRecord {
	return MatchRecord{
		typ:    typ,
		values: maps.Clone(values),
		text:   maps.Clone(text),
	}
}

// Type returns the subtype label of the matched template, e.g. "Ia-norm".
func (m MatchRecord) Type() string { return m.typ }

// Value returns the numeric field named key. It fails with ErrMissingField
// when the record carries no such field.
func (m MatchRecord) Value(key string) (float64, error) {
	v, ok := m.values[key]
	if !ok {
		return 0, ErrMissingField
	}
	return v, nil
}

// Has reports whether the record carries the numeric field named key.
func (m MatchRecord) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// RLap returns the correlation quality score. Records built by the listing
// parser always carry it; zero is returned otherwise.
func (m MatchRecord) RLap() float64 { return m.values[FieldRLap] }

// Z returns the redshift estimate, if present.
func (m MatchRecord) Z() (float64, bool) {
	v, ok := m.values[FieldZ]
	return v, ok
}

// ZErr returns the redshift uncertainty, if present.
func (m MatchRecord) ZErr() (float64, bool) {
	v, ok := m.values[FieldZErr]
	return v, ok
}

// Text returns a non-numeric column such as the template name ("sn") or
// the match grade.
func (m MatchRecord) Text(column string) (string, bool) {
	v, ok := m.text[column]
	return v, ok
}

// Fields returns a copy of all numeric fields of the record.
func (m MatchRecord) Fields() map[string]float64 { return maps.Clone(m.values) }
