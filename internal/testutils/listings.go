// Package testutils provides fixtures and test doubles shared by the
// package tests.
package testutils

import "github.com/ahrav/typereader/internal/domain"

// Match builds a record with a type label, an rlap and optional redshift.
func Match(typ string, rlap float64) domain.MatchRecord {
	return domain.NewMatchRecord(typ, map[string]float64{domain.FieldRLap: rlap}, nil)
}

// MatchZ builds a record that also carries z and zerr.
func MatchZ(typ string, rlap, z, zerr float64) domain.MatchRecord {
	return domain.NewMatchRecord(typ, map[string]float64{
		domain.FieldRLap: rlap,
		domain.FieldZ:    z,
		domain.FieldZErr: zerr,
	}, nil)
}

// ScenarioListing returns the twelve-entry listing used across tests. In the
// first ten entries the mean rlap per category is Ia 6.5, II 5, Ib 5, Ic 1
// and NotSN 0; the last two entries (Ib 0.5 and M-star 0.25) lie beyond a
// window of ten.
func ScenarioListing() []domain.MatchRecord {
	return []domain.MatchRecord{
		MatchZ("Ia-norm", 10, 0.0215, 0.0034),
		MatchZ("Ia-norm", 9, 0.0221, 0.0036),
		MatchZ("Ia-91T", 8, 0.0230, 0.0040),
		MatchZ("II", 7, 0.0190, 0.0051),
		MatchZ("Ia-norm", 6, 0.0224, 0.0038),
		MatchZ("Ib", 5, 0.0180, 0.0062),
		MatchZ("Ia-pec", 4, 0.0242, 0.0041),
		MatchZ("II", 3, 0.0170, 0.0071),
		MatchZ("Ia-norm", 2, 0.0219, 0.0047),
		MatchZ("Ic", 1, 0.0160, 0.0080),
		MatchZ("Ib", 0.5, 0.0150, 0.0090),
		MatchZ("M-star", 0.25, 0.0000, 0.0100),
	}
}
