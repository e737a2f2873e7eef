package driven

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// WeightSource loads the per-tier weight tables the hierarchy is built from.
// Backed by a directory of CSV files in the reference layout.
type WeightSource interface {
	// LoadWeights reads every tier's table. The subclass table may be nil
	// when the source does not carry that tier. Returns a SchemaError
	// listing every missing table and column when the layout is wrong.
	LoadWeights(ctx context.Context) (domain.WeightTables, error)
}
