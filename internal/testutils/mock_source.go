package testutils

import (
	"context"
	"fmt"

	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

// MockMatchSource implements ports.MatchSource from listings held in memory,
// keyed by path. Unknown paths fail with a ports.SourceError.
type MockMatchSource struct {
	listings map[string][]domain.MatchRecord
	// Loads counts successful Load calls.
	Loads int
}

// NewMockMatchSource creates an empty source.
func NewMockMatchSource() *MockMatchSource {
	return &MockMatchSource{listings: make(map[string][]domain.MatchRecord)}
}

// Add registers records under path.
func (m *MockMatchSource) Add(path string, records []domain.MatchRecord) *MockMatchSource {
	m.listings[path] = records
	return m
}

// Load implements ports.MatchSource.
func (m *MockMatchSource) Load(ctx context.Context, path string) ([]domain.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, ok := m.listings[path]
	if !ok {
		return nil, ports.NewSourceError(path, fmt.Errorf("no listing registered"))
	}
	m.Loads++
	return records, nil
}
