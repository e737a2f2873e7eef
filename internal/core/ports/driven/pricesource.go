package driven

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// PriceSource loads price relatives for the calculator. Backed either by a
// wide CSV matrix (one stream, period columns) or by the item-level rows of
// the main dataset (one stream per state and sector).
type PriceSource interface {
	// LoadPrices reads every observation. Returns a SchemaError when the
	// source layout is wrong and ErrNoPrices when it is empty.
	LoadPrices(ctx context.Context) (*domain.PriceSeries, error)
}
