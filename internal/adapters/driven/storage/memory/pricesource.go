package memory

import (
	"context"
	"sync"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

// Ensure PriceSource implements the interface.
var _ driven.PriceSource = (*PriceSource)(nil)

// PriceSource is an in-memory implementation of driven.PriceSource serving
// a fixed series.
type PriceSource struct {
	mu     sync.RWMutex
	series *domain.PriceSeries
	err    error
}

// NewPriceSource creates a price source that serves the given series.
func NewPriceSource(series *domain.PriceSeries) *PriceSource {
	return &PriceSource{series: series}
}

// SetSeries replaces the served series.
func (s *PriceSource) SetSeries(series *domain.PriceSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = series
}

// SetError makes every subsequent load fail with err.
func (s *PriceSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// LoadPrices returns the configured series.
func (s *PriceSource) LoadPrices(_ context.Context) (*domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.series == nil || s.series.Len() == 0 {
		return nil, domain.ErrNoPrices
	}
	return s.series, nil
}
