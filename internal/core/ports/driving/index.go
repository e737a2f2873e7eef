package driving

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// IndexService calculates weighted indices over the item universe.
type IndexService interface {
	// Calculate builds the index named name over every item the
	// exclusions leave in. An empty exclusion set yields the headline
	// index. Returns EmptySelectionError when nothing survives.
	Calculate(ctx context.Context, name string, exclusions *domain.ExclusionSet) (*domain.IndexResult, error)

	// Preview resolves the exclusions and reports their weight impact
	// without calculating anything.
	Preview(ctx context.Context, exclusions *domain.ExclusionSet) (domain.Impact, error)

	// UnknownSelectors returns the selectors that match no node, so
	// callers can warn about typos. The calculation itself ignores them.
	UnknownSelectors(ctx context.Context, exclusions *domain.ExclusionSet) ([]string, error)
}
