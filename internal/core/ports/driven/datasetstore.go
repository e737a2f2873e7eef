package driven

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// CommitRecord describes one committed custom index for the audit listing.
type CommitRecord struct {
	// ID is the result's unique identifier.
	ID string

	// Name is the index name.
	Name string

	// ItemsCount is how many items entered the calculation.
	ItemsCount int

	// TotalWeight is the selection's raw weight.
	TotalWeight float64

	// ExcludedWeight is the weight the exclusions removed.
	ExcludedWeight float64

	// Rows is how many artifact rows the result produced.
	Rows int

	// CreatedAt is when the result was committed, RFC 3339.
	CreatedAt string
}

// DatasetStore persists the main index dataset and the custom indices
// appended to it. Backed by SQLite.
type DatasetStore interface {
	// AppendRows adds result rows to the main dataset.
	AppendRows(ctx context.Context, rows []domain.ResultRow) error

	// SaveStandalone writes result rows as a separate artifact and returns
	// its location.
	SaveStandalone(ctx context.Context, name string, rows []domain.ResultRow) (string, error)

	// RecordCommit stores the audit record for a committed result.
	RecordCommit(ctx context.Context, rec CommitRecord) error

	// ListCommits returns every audit record, newest first.
	ListCommits(ctx context.Context) ([]CommitRecord, error)

	// ItemSeries reads the item-level rows back as a price series, one
	// stream per state and sector. Aggregate rows are skipped.
	ItemSeries(ctx context.Context) (*domain.PriceSeries, error)

	// Close releases the underlying storage.
	Close() error
}
