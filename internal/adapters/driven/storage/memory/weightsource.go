package memory

import (
	"context"
	"sync"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

// Ensure WeightSource implements the interface.
var _ driven.WeightSource = (*WeightSource)(nil)

// WeightSource is an in-memory implementation of driven.WeightSource.
// SetTables lets watch-mode tests swap the tables between reloads.
type WeightSource struct {
	mu     sync.RWMutex
	tables domain.WeightTables
	err    error
}

// NewWeightSource creates a weight source that serves the given tables.
func NewWeightSource(tables domain.WeightTables) *WeightSource {
	return &WeightSource{tables: tables}
}

// SetTables replaces the served tables.
func (s *WeightSource) SetTables(tables domain.WeightTables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = tables
}

// SetError makes every subsequent load fail with err.
func (s *WeightSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// LoadWeights returns the configured tables.
func (s *WeightSource) LoadWeights(_ context.Context) (domain.WeightTables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return domain.WeightTables{}, s.err
	}
	return s.tables, nil
}
