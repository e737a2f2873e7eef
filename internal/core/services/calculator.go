package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// yoyLag is how many positions back in a stream the year-on-year change
// compares against. Streams are monthly, so twelve.
const yoyLag = 12

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService calculates weighted indices over the item universe. Prices
// are loaded once and cached; InvalidatePrices drops the cache after the
// source changes.
type IndexService struct {
	hierarchies driving.HierarchyService
	prices      driven.PriceSource
	resolver    *Resolver
	series      *domain.PriceSeries
}

// NewIndexService creates an index service.
func NewIndexService(hierarchies driving.HierarchyService, prices driven.PriceSource) *IndexService {
	return &IndexService{
		hierarchies: hierarchies,
		prices:      prices,
		resolver:    NewResolver(),
	}
}

// InvalidatePrices drops the cached price series so the next calculation
// reloads it from the source. Watch mode calls this on change events.
func (s *IndexService) InvalidatePrices() {
	s.series = nil
}

// Calculate builds the named index over every item the exclusions leave in.
func (s *IndexService) Calculate(ctx context.Context, name string, exclusions *domain.ExclusionSet) (*domain.IndexResult, error) {
	h, err := s.hierarchies.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	series, err := s.loadSeries(ctx)
	if err != nil {
		return nil, err
	}

	excluded := s.resolver.Resolve(exclusions, h)
	remaining := s.resolver.Remaining(excluded, h)

	result, err := CalculateIndex(name, remaining, series, h)
	if err != nil {
		return nil, err
	}

	impact := s.resolver.Impact(excluded, h)
	result.ID = uuid.New().String()
	result.CreatedAt = time.Now().UTC()
	result.ExcludedCount = impact.ItemsExcluded
	result.ExcludedWeight = impact.ExcludedWeight

	logger.Info("Calculated %q: %d items, weight %.2f, %d points",
		result.Name, result.ItemsCount, result.TotalWeight, result.PeriodCount())
	return result, nil
}

// Preview resolves the exclusions and reports their weight impact.
func (s *IndexService) Preview(ctx context.Context, exclusions *domain.ExclusionSet) (domain.Impact, error) {
	h, err := s.hierarchies.Hierarchy(ctx)
	if err != nil {
		return domain.Impact{}, err
	}
	excluded := s.resolver.Resolve(exclusions, h)
	return s.resolver.Impact(excluded, h), nil
}

// UnknownSelectors returns the selectors that match no node.
func (s *IndexService) UnknownSelectors(ctx context.Context, exclusions *domain.ExclusionSet) ([]string, error) {
	h, err := s.hierarchies.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.UnknownSelectors(exclusions, h), nil
}

func (s *IndexService) loadSeries(ctx context.Context) (*domain.PriceSeries, error) {
	if s.series != nil {
		return s.series, nil
	}
	series, err := s.prices.LoadPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading prices: %w", err)
	}
	if series.Len() == 0 {
		return nil, domain.ErrNoPrices
	}
	s.series = series
	return series, nil
}

// CalculateIndex computes a weighted index over the given item selection.
//
// Weights come from the hierarchy and are renormalized so the selection sums
// to exactly 100. Each stream's period value is the weighted arithmetic mean
// of the observations present for selected items that period: items without
// a price drop out of that period's numerator and denominator, so the
// effective weight drifts with coverage rather than being corrected.
//
// Change series restart per stream. The first point of a stream has no
// month-on-month value and the first twelve have no year-on-year value;
// both are flagged rather than zero-filled.
//
// Returns EmptySelectionError when the selection is empty or weightless.
func CalculateIndex(name string, itemCodes []string, series *domain.PriceSeries, h *domain.Hierarchy) (*domain.IndexResult, error) {
	logger.Section("Index Calculation")
	logger.Debug("Variant %q over %d items", name, len(itemCodes))

	// Renormalize the selection's weights to sum to 100.
	var rawWeight float64
	for _, code := range itemCodes {
		rawWeight += h.ItemWeight(code)
	}
	if len(itemCodes) == 0 || rawWeight <= 0 {
		return nil, &domain.EmptySelectionError{Excluded: h.Len(domain.LevelItem) - len(itemCodes)}
	}

	normalized := make(map[string]float64, len(itemCodes))
	for _, code := range itemCodes {
		normalized[code] = h.ItemWeight(code) / rawWeight * 100
	}
	logger.Debug("Selection weight %.4f renormalized by factor %.6f", rawWeight, 100/rawWeight)

	result := &domain.IndexResult{
		Name:             name,
		ItemsCount:       len(itemCodes),
		TotalWeight:      rawWeight,
		NormalizedWeight: 100,
	}

	for _, group := range series.Groups() {
		points := calculateStream(group, itemCodes, normalized, series)
		if len(points) == 0 {
			logger.Debug("Stream %s has no priced selection, skipped", group)
			continue
		}
		result.Series = append(result.Series, domain.GroupSeries{Group: group, Points: points})
	}

	if len(result.Series) == 0 {
		return nil, domain.ErrNoPrices
	}
	return result, nil
}

// calculateStream computes one state and sector stream with its derived
// changes.
func calculateStream(group domain.GroupKey, itemCodes []string, normalized map[string]float64, series *domain.PriceSeries) []domain.IndexPoint {
	var points []domain.IndexPoint

	for _, period := range series.Periods(group) {
		observations := series.At(group, period)

		var weightedSum, weightTotal float64
		for _, code := range itemCodes {
			value, ok := observations[code]
			if !ok {
				continue
			}
			weight := normalized[code]
			weightedSum += value * weight
			weightTotal += weight
		}

		if weightTotal == 0 {
			matched := false
			for _, code := range itemCodes {
				if _, ok := observations[code]; ok {
					matched = true
					break
				}
			}
			if !matched {
				// Nothing selected is priced this period.
				continue
			}
			// Priced items whose weights are all zero publish the base value.
			points = append(points, domain.IndexPoint{Period: period, Index: 100})
			continue
		}

		points = append(points, domain.IndexPoint{
			Period: period,
			Index:  weightedSum / weightTotal,
		})
	}

	// Derived changes restart at the stream's first point.
	for i := range points {
		if i > 0 && points[i-1].Index != 0 {
			points[i].MoM = (points[i].Index - points[i-1].Index) / points[i-1].Index * 100
			points[i].HasMoM = true
		}
		if i >= yoyLag && points[i-yoyLag].Index != 0 {
			points[i].YoY = (points[i].Index - points[i-yoyLag].Index) / points[i-yoyLag].Index * 100
			points[i].HasYoY = true
		}
	}

	return points
}
