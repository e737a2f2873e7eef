package driving

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// HierarchyService exposes the built weight hierarchy to external actors.
type HierarchyService interface {
	// Hierarchy returns the current hierarchy, building it on first use.
	Hierarchy(ctx context.Context) (*domain.Hierarchy, error)

	// Reload discards the cached hierarchy and rebuilds it from the
	// weight source. Used by watch mode after a source change.
	Reload(ctx context.Context) (*domain.Hierarchy, error)
}
