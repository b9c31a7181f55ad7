package domain

import (
	"errors"
	"slices"
)

// DefaultTargetName is used when a listing is loaded without a target name.
const DefaultTargetName = "NoName"

// Reader owns one rlap-ordered match listing and the name of the transient
// it was produced for. It aggregates the listing through a shared Aggregator.
//
// The last window and statistic passed to AggregateRLap are kept for
// rendering captions. That cache has a single writer and is not safe for
// concurrent use; callers sharing a Reader across goroutines must serialise
// access themselves.
type Reader struct {
	records    []MatchRecord
	targetName string
	aggregator *Aggregator

	lastWindow    int
	lastStatistic string
}

// NewReader creates a Reader over records, which must already be ordered
// best match first. The slice is copied.
func NewReader(records []MatchRecord, targetName string, aggregator *Aggregator) (*Reader, error) {
	if aggregator == nil {
		return nil, errors.New("aggregator cannot be nil")
	}
	if targetName == "" {
		targetName = DefaultTargetName
	}
	return &Reader{
		records:    slices.Clone(records),
		targetName: targetName,
		aggregator: aggregator,
	}, nil
}

// TargetName returns the transient name, or DefaultTargetName.
func (r *Reader) TargetName() string { return r.targetName }

// Len returns the number of records in the listing.
func (r *Reader) Len() int { return len(r.records) }

// Records returns a copy of the listing.
func (r *Reader) Records() []MatchRecord { return slices.Clone(r.records) }

// Types returns the type label of every record, in rank order.
func (r *Reader) Types() []string {
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Type()
	}
	return out
}

// RLaps returns the rlap of every record, in rank order.
func (r *Reader) RLaps() []float64 {
	out := make([]float64, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.RLap()
	}
	return out
}

// Top returns the best-ranked record, independent of any aggregation.
func (r *Reader) Top() (MatchRecord, bool) {
	if len(r.records) == 0 {
		return MatchRecord{}, false
	}
	return r.records[0], true
}

// Taxonomy returns the taxonomy used for grouping.
func (r *Reader) Taxonomy() *Taxonomy { return r.aggregator.Taxonomy() }

// Aggregate runs req against the listing. It does not touch the caption cache.
func (r *Reader) Aggregate(req Request) (Result, error) {
	return r.aggregator.Aggregate(r.records, req)
}

// AggregateRLap aggregates the rlap field and, on success, remembers window
// and statistic for LastWindow and LastStatistic.
func (r *Reader) AggregateRLap(window int, statistic, subtypeOf string) (Result, error) {
	res, err := r.aggregator.Aggregate(r.records, Request{
		Key:       FieldRLap,
		Window:    window,
		Statistic: statistic,
		SubtypeOf: subtypeOf,
	})
	if err != nil {
		return Result{}, err
	}
	r.lastWindow = window
	r.lastStatistic = statistic
	return res, nil
}

// LastWindow returns the window of the most recent successful AggregateRLap
// call, or zero.
func (r *Reader) LastWindow() int { return r.lastWindow }

// LastStatistic returns the statistic of the most recent successful
// AggregateRLap call, or the empty string.
func (r *Reader) LastStatistic() string { return r.lastStatistic }
