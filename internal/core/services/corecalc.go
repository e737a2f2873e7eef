package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// Ensure CoreService implements the interface.
var _ driving.CoreService = (*CoreService)(nil)

// CoreService removes already-published aggregates from a headline index
// algebraically. It never touches the hierarchy or prices: both sides of
// the calculation are index and weight pairs the caller supplies.
type CoreService struct{}

// NewCoreService creates a core exclusion service.
func NewCoreService() *CoreService {
	return &CoreService{}
}

// CalculateExItems derives the ex-items index for both periods and compares
// inflation rates.
//
// For each period:
//
//	ex = (headline.Index*headline.Weight - sum(c.Index*c.Weight)) / (headline.Weight - sum(c.Weight))
//
// Components with no weight in either period are skipped. Every validation
// problem is collected before the calculation fails, so one bad scenario
// reports all of its problems at once.
func (s *CoreService) CalculateExItems(ctx context.Context, input domain.CoreInput) (*domain.CoreExclusionResult, error) {
	logger.Section("Core Index Calculation")

	var problems []string

	if input.HeadlineOld.Index <= 0 || input.HeadlineNew.Index <= 0 {
		problems = append(problems, "headline index values must be positive")
	}
	if input.HeadlineOld.Weight <= 0 || input.HeadlineNew.Weight <= 0 {
		problems = append(problems, "headline weight values must be positive")
	}

	var (
		effective      []domain.CoreComponent
		excludedOld    float64
		excludedNew    float64
		weightedSumOld float64
		weightedSumNew float64
	)
	for _, c := range input.Components {
		if !c.Effective() {
			// Nothing to remove in either period.
			continue
		}
		name := c.Name
		if name == "" {
			name = "Unknown"
		}
		if c.Old.Index < 0 || c.New.Index < 0 {
			problems = append(problems, fmt.Sprintf("exclusion %q has a negative index", name))
			continue
		}
		if c.Old.Weight < 0 || c.New.Weight < 0 {
			problems = append(problems, fmt.Sprintf("exclusion %q has a negative weight", name))
			continue
		}

		weightedSumOld += c.Old.Index * c.Old.Weight
		weightedSumNew += c.New.Index * c.New.Weight
		excludedOld += c.Old.Weight
		excludedNew += c.New.Weight
		effective = append(effective, c)
	}

	if len(effective) == 0 {
		problems = append(problems, "no valid exclusions provided")
	}
	if excludedOld >= input.HeadlineOld.Weight {
		problems = append(problems, fmt.Sprintf(
			"total excluded old weight (%.2f) must be less than headline weight (%.2f)",
			excludedOld, input.HeadlineOld.Weight))
	}
	if excludedNew >= input.HeadlineNew.Weight {
		problems = append(problems, fmt.Sprintf(
			"total excluded new weight (%.2f) must be less than headline weight (%.2f)",
			excludedNew, input.HeadlineNew.Weight))
	}

	if len(problems) > 0 {
		return nil, &domain.ValidationError{Problems: problems}
	}

	exOld := (input.HeadlineOld.Index*input.HeadlineOld.Weight - weightedSumOld) /
		(input.HeadlineOld.Weight - excludedOld)
	exNew := (input.HeadlineNew.Index*input.HeadlineNew.Weight - weightedSumNew) /
		(input.HeadlineNew.Weight - excludedNew)

	headlineInflation := (input.HeadlineNew.Index - input.HeadlineOld.Index) / input.HeadlineOld.Index * 100
	exInflation := (exNew - exOld) / exOld * 100

	name := input.ScenarioName
	if name == "" {
		name = "CPI Ex. Items"
	}

	result := &domain.CoreExclusionResult{
		ScenarioName:      name,
		HeadlineOld:       input.HeadlineOld,
		HeadlineNew:       input.HeadlineNew,
		ExOld:             exOld,
		ExNew:             exNew,
		ExcludedWeightOld: excludedOld,
		ExcludedWeightNew: excludedNew,
		HeadlineInflation: headlineInflation,
		ExInflation:       exInflation,
		Difference:        exInflation - headlineInflation,
		CreatedAt:         time.Now().UTC(),
	}
	for _, c := range effective {
		outcome := domain.CoreComponentOutcome{Name: c.Name, Old: c.Old, New: c.New}
		if outcome.Name == "" {
			outcome.Name = "Unknown"
		}
		if c.Old.Index > 0 {
			outcome.Inflation = (c.New.Index - c.Old.Index) / c.Old.Index * 100
		}
		result.Components = append(result.Components, outcome)
	}

	logger.Info("Scenario %q: headline %.2f%%, ex-items %.2f%%, difference %.2f pp",
		name, headlineInflation, exInflation, result.Difference)
	return result, nil
}
