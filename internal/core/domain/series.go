package domain

import (
	"fmt"
	"sort"
	"time"
)

// Period is one month of the index timeline, parsed from YYYY-MM column
// headers or date cells.
type Period struct {
	// Year is the four-digit year.
	Year int

	// Month is the calendar month.
	Month time.Month
}

// ParsePeriod parses a YYYY-MM string. Full dates (YYYY-MM-DD) are accepted
// and truncated to their month.
func ParsePeriod(s string) (Period, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return Period{Year: t.Year(), Month: t.Month()}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Period{Year: t.Year(), Month: t.Month()}, nil
	}
	return Period{}, fmt.Errorf("%w: %q is not a YYYY-MM period", ErrInvalidInput, s)
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Date returns the first day of the period in UTC.
func (p Period) Date() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p precedes q in time.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// GroupKey identifies one published series stream. Every index value belongs
// to exactly one state and sector combination.
type GroupKey struct {
	// State is the reporting state, or the all-states aggregate.
	State string

	// Sector is the reporting sector (urban, rural, or the combined total).
	Sector string
}

// DefaultGroupKey is the single stream used when the price source carries no
// state or sector dimension, such as a wide price-relative matrix.
var DefaultGroupKey = GroupKey{State: "All", Sector: "All"}

// String formats the key for logs and error messages.
func (k GroupKey) String() string {
	return k.State + "/" + k.Sector
}

// Observation is one price relative for one item in one period.
type Observation struct {
	// Period is the month observed.
	Period Period

	// Value is the price relative. Positive by construction.
	Value float64
}

// PriceSeries holds price relatives keyed by group, period, and item code.
// Sources build it once; calculators only read it. Period lists are kept
// sorted so iteration order is deterministic.
type PriceSeries struct {
	values  map[GroupKey]map[Period]map[string]float64
	periods map[GroupKey][]Period
	items   map[string]struct{}
}

// NewPriceSeries returns an empty series ready for Add calls.
func NewPriceSeries() *PriceSeries {
	return &PriceSeries{
		values:  make(map[GroupKey]map[Period]map[string]float64),
		periods: make(map[GroupKey][]Period),
		items:   make(map[string]struct{}),
	}
}

// Add records one observation. Later adds for the same group, period and
// item overwrite earlier ones.
func (s *PriceSeries) Add(group GroupKey, period Period, itemCode string, value float64) {
	byPeriod, ok := s.values[group]
	if !ok {
		byPeriod = make(map[Period]map[string]float64)
		s.values[group] = byPeriod
	}
	byItem, ok := byPeriod[period]
	if !ok {
		byItem = make(map[string]float64)
		byPeriod[period] = byItem
		s.periods[group] = insertPeriod(s.periods[group], period)
	}
	byItem[itemCode] = value
	s.items[itemCode] = struct{}{}
}

func insertPeriod(ps []Period, p Period) []Period {
	i := sort.Search(len(ps), func(i int) bool { return !ps[i].Before(p) })
	if i < len(ps) && ps[i] == p {
		return ps
	}
	ps = append(ps, Period{})
	copy(ps[i+1:], ps[i:])
	ps[i] = p
	return ps
}

// Groups returns every group key in the series, sorted by state then sector.
func (s *PriceSeries) Groups() []GroupKey {
	out := make([]GroupKey, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// Periods returns the ordered periods observed for a group.
func (s *PriceSeries) Periods(group GroupKey) []Period {
	return append([]Period(nil), s.periods[group]...)
}

// Value returns one observation, reporting whether it exists.
func (s *PriceSeries) Value(group GroupKey, period Period, itemCode string) (float64, bool) {
	v, ok := s.values[group][period][itemCode]
	return v, ok
}

// At returns the item observations for one group and period. The returned
// map is the series' own storage; callers must not mutate it.
func (s *PriceSeries) At(group GroupKey, period Period) map[string]float64 {
	return s.values[group][period]
}

// ItemSeries returns one item's ordered observations within a group.
func (s *PriceSeries) ItemSeries(group GroupKey, itemCode string) []Observation {
	var out []Observation
	for _, p := range s.periods[group] {
		if v, ok := s.values[group][p][itemCode]; ok {
			out = append(out, Observation{Period: p, Value: v})
		}
	}
	return out
}

// Items returns the sorted codes of every item with at least one observation.
func (s *PriceSeries) Items() []string {
	return SortedCodes(s.items)
}

// HasItem reports whether the item has any observation in any group.
func (s *PriceSeries) HasItem(code string) bool {
	_, ok := s.items[code]
	return ok
}

// Len returns the total number of observations.
func (s *PriceSeries) Len() int {
	var n int
	for _, byPeriod := range s.values {
		for _, byItem := range byPeriod {
			n += len(byItem)
		}
	}
	return n
}
