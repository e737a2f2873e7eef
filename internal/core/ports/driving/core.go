package driving

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// CoreService derives ex-items indices algebraically from already-published
// aggregates, without access to items or prices.
type CoreService interface {
	// CalculateExItems removes the input's components from its headline
	// and compares the resulting inflation rates. Returns a
	// ValidationError listing every input problem at once.
	CalculateExItems(ctx context.Context, input domain.CoreInput) (*domain.CoreExclusionResult, error)
}
