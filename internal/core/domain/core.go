package domain

import "time"

// AggregatePoint is an already-published index value and the weight it
// carries, for one period. The algebraic core calculation works entirely on
// these pairs; it never sees items or prices.
type AggregatePoint struct {
	// Index is the published index value.
	Index float64

	// Weight is the weight behind that value.
	Weight float64
}

// CoreComponent is one aggregate to remove from the headline, with its
// values in both comparison periods. Weights may differ between periods.
type CoreComponent struct {
	// Name labels the component in output.
	Name string

	// Old is the component in the earlier period.
	Old AggregatePoint

	// New is the component in the later period.
	New AggregatePoint
}

// Effective reports whether the component carries weight in either period.
// Components with no weight anywhere have nothing to remove and are skipped.
func (c CoreComponent) Effective() bool {
	return c.Old.Weight > 0 || c.New.Weight > 0
}

// CoreInput is the full input to an algebraic core-index calculation.
type CoreInput struct {
	// ScenarioName labels the calculation in output.
	ScenarioName string

	// HeadlineOld is the headline index in the earlier period.
	HeadlineOld AggregatePoint

	// HeadlineNew is the headline index in the later period.
	HeadlineNew AggregatePoint

	// Components are the aggregates to remove.
	Components []CoreComponent
}

// CoreComponentOutcome echoes one excluded component with its own inflation
// rate between the two periods.
type CoreComponentOutcome struct {
	// Name labels the component.
	Name string

	// Old is the component in the earlier period.
	Old AggregatePoint

	// New is the component in the later period.
	New AggregatePoint

	// Inflation is the component's own rate between the periods, in
	// percent. Zero when the old index is zero.
	Inflation float64
}

// CoreExclusionResult is the outcome of an algebraic core-index
// calculation: the headline with the named components removed, in both
// periods, plus the derived inflation comparison.
type CoreExclusionResult struct {
	// ScenarioName labels the calculation.
	ScenarioName string

	// HeadlineOld is the headline input for the earlier period.
	HeadlineOld AggregatePoint

	// HeadlineNew is the headline input for the later period.
	HeadlineNew AggregatePoint

	// ExOld is the ex-items index in the earlier period.
	ExOld float64

	// ExNew is the ex-items index in the later period.
	ExNew float64

	// ExcludedWeightOld is the total weight removed in the earlier period.
	ExcludedWeightOld float64

	// ExcludedWeightNew is the total weight removed in the later period.
	ExcludedWeightNew float64

	// HeadlineInflation is the headline rate between the periods, percent.
	HeadlineInflation float64

	// ExInflation is the ex-items rate between the periods, percent.
	ExInflation float64

	// Difference is ExInflation minus HeadlineInflation, in percentage
	// points. Negative when the removed components were pushing the
	// headline up.
	Difference float64

	// Components echoes each effective exclusion with its own rate.
	Components []CoreComponentOutcome

	// CreatedAt is when the calculation ran.
	CreatedAt time.Time
}
