package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is an in-memory implementation of driven.DatasetStore.
// Standalone artifacts are kept by name instead of being written to disk.
type DatasetStore struct {
	mu         sync.RWMutex
	rows       []domain.ResultRow
	standalone map[string][]domain.ResultRow
	commits    []driven.CommitRecord
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		standalone: make(map[string][]domain.ResultRow),
	}
}

// AppendRows adds rows to the main dataset.
func (s *DatasetStore) AppendRows(_ context.Context, rows []domain.ResultRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

// SaveStandalone keeps rows under the artifact name. The returned path is
// the name with a .csv suffix, mirroring the file-backed store.
func (s *DatasetStore) SaveStandalone(_ context.Context, name string, rows []domain.ResultRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standalone[name] = append([]domain.ResultRow(nil), rows...)
	return name + ".csv", nil
}

// RecordCommit stores or replaces a commit record by ID.
func (s *DatasetStore) RecordCommit(_ context.Context, rec driven.CommitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.commits {
		if existing.ID == rec.ID {
			s.commits[i] = rec
			return nil
		}
	}
	s.commits = append(s.commits, rec)
	return nil
}

// ListCommits returns commit records, newest first.
func (s *DatasetStore) ListCommits(_ context.Context) ([]driven.CommitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]driven.CommitRecord(nil), s.commits...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

// ItemSeries rebuilds a price series from the item-level rows, skipping
// aggregate rows.
func (s *DatasetStore) ItemSeries(_ context.Context) (*domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := domain.NewPriceSeries()
	for _, r := range s.rows {
		if r.Item == domain.Aggregate || r.Code == domain.Aggregate {
			continue
		}
		group := domain.GroupKey{State: r.State, Sector: r.Sector}
		period := domain.Period{Year: r.Year, Month: time.Month(r.Month)}
		series.Add(group, period, r.Code, r.Index)
	}
	return series, nil
}

// Close is a no-op for the in-memory store.
func (s *DatasetStore) Close() error {
	return nil
}

// Rows returns a copy of everything appended to the main dataset.
func (s *DatasetStore) Rows() []domain.ResultRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ResultRow(nil), s.rows...)
}

// Standalone returns the rows saved under an artifact name.
func (s *DatasetStore) Standalone(name string) ([]domain.ResultRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.standalone[name]
	return rows, ok
}
