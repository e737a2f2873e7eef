package domain

import (
	"fmt"
	"time"
)

// Aggregate is the sentinel written to the sub-division columns of output
// rows. Custom indices publish at division granularity; everything below is
// the aggregate marker.
const Aggregate = "*"

// IndexPoint is one period of a calculated index series.
type IndexPoint struct {
	// Period is the month this value covers.
	Period Period

	// Index is the weighted index value for the period.
	Index float64

	// MoM is the month-on-month percentage change. Only meaningful when
	// HasMoM is true; the first period of each stream has no prior value.
	MoM float64

	// HasMoM reports whether MoM is defined for this point.
	HasMoM bool

	// YoY is the year-on-year percentage change, twelve positions back in
	// the stream. Only meaningful when HasYoY is true.
	YoY float64

	// HasYoY reports whether YoY is defined for this point.
	HasYoY bool
}

// GroupSeries is one state and sector stream of an index result.
type GroupSeries struct {
	// Group identifies the stream.
	Group GroupKey

	// Points holds the periods in ascending order.
	Points []IndexPoint
}

// IndexResult is a calculated index. It is immutable once returned by the
// calculator; sessions copy results into their history and persistence
// flattens them to rows without modifying the value.
type IndexResult struct {
	// ID is the unique identifier assigned at calculation time.
	ID string

	// Name is the user-chosen index name. It becomes the division column
	// of every output row.
	Name string

	// ItemsCount is how many items entered the calculation.
	ItemsCount int

	// TotalWeight is the raw weight of the selected items before
	// renormalization.
	TotalWeight float64

	// NormalizedWeight is the weight the selection was scaled to. Always
	// 100 by construction.
	NormalizedWeight float64

	// ExcludedCount is how many items the exclusions removed.
	ExcludedCount int

	// ExcludedWeight is the raw weight the exclusions removed.
	ExcludedWeight float64

	// Series holds one stream per state and sector, sorted by group key.
	Series []GroupSeries

	// CreatedAt is when the calculation ran.
	CreatedAt time.Time
}

// Points returns the points of the first stream, which is the only stream
// for single-group sources. Convenience for display code.
func (r *IndexResult) Points() []IndexPoint {
	if len(r.Series) == 0 {
		return nil
	}
	return r.Series[0].Points
}

// PeriodCount returns the total number of points across all streams.
func (r *IndexResult) PeriodCount() int {
	var n int
	for _, gs := range r.Series {
		n += len(gs.Points)
	}
	return n
}

// ResultRow is one output artifact record. Column layout matches the main
// dataset: custom indices occupy the division column and mark every
// narrower column with the aggregate sentinel.
type ResultRow struct {
	// Date is the first day of the period.
	Date time.Time

	// Year is the period's year.
	Year int

	// Month is the period's month number, 1 through 12.
	Month int

	// State is the reporting state for the stream.
	State string

	// Sector is the reporting sector for the stream.
	Sector string

	// Division carries the custom index name.
	Division string

	// Group is always the aggregate sentinel for custom indices.
	Group string

	// Class is always the aggregate sentinel for custom indices.
	Class string

	// Subclass is always the aggregate sentinel for custom indices.
	Subclass string

	// Item is always the aggregate sentinel for custom indices.
	Item string

	// Code is always the aggregate sentinel for custom indices.
	Code string

	// Index is the index value.
	Index float64

	// MoM is the month-on-month change, nil for the first period of a
	// stream so the artifact writes an empty cell rather than a zero.
	MoM *float64

	// YoY is the year-on-year change, nil until twelve periods exist.
	YoY *float64
}

// Rows flattens the result into output artifact records, one per stream and
// period, in stream then period order.
func (r *IndexResult) Rows() []ResultRow {
	var rows []ResultRow
	for _, gs := range r.Series {
		for _, pt := range gs.Points {
			row := ResultRow{
				Date:     pt.Period.Date(),
				Year:     pt.Period.Year,
				Month:    int(pt.Period.Month),
				State:    gs.Group.State,
				Sector:   gs.Group.Sector,
				Division: r.Name,
				Group:    Aggregate,
				Class:    Aggregate,
				Subclass: Aggregate,
				Item:     Aggregate,
				Code:     Aggregate,
				Index:    pt.Index,
			}
			if pt.HasMoM {
				v := pt.MoM
				row.MoM = &v
			}
			if pt.HasYoY {
				v := pt.YoY
				row.YoY = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// CommitChoice selects what happens to a finished session's results.
type CommitChoice string

const (
	// CommitAppend appends the rows to the main dataset.
	CommitAppend CommitChoice = "append"
	// CommitStandalone writes the rows as a separate artifact.
	CommitStandalone CommitChoice = "standalone"
	// CommitDiscard drops the rows.
	CommitDiscard CommitChoice = "discard"
)

// IsValid reports whether the choice is one of the defined commit modes.
func (c CommitChoice) IsValid() bool {
	switch c {
	case CommitAppend, CommitStandalone, CommitDiscard:
		return true
	}
	return false
}

// String returns the choice name.
func (c CommitChoice) String() string {
	return string(c)
}

// Description returns a human-readable explanation for UI display.
func (c CommitChoice) Description() string {
	switch c {
	case CommitAppend:
		return "Append to the main dataset"
	case CommitStandalone:
		return "Save as a standalone file"
	case CommitDiscard:
		return "Discard without saving"
	default:
		return "Unknown choice"
	}
}

// ParseCommitChoice accepts the canonical names and the numeric menu
// shortcuts 1, 2 and 3.
func ParseCommitChoice(s string) (CommitChoice, error) {
	switch s {
	case "1", string(CommitAppend):
		return CommitAppend, nil
	case "2", string(CommitStandalone):
		return CommitStandalone, nil
	case "3", string(CommitDiscard):
		return CommitDiscard, nil
	}
	return "", fmt.Errorf("%w: unknown commit choice %q", ErrInvalidInput, s)
}
