package domain

import "fmt"

// ExclusionSet records what the user has chosen to leave out of the index,
// as four independent selector collections keyed by hierarchy level.
// A selector is a node code or an exact node name; matching happens at
// resolve time, the set itself stores strings.
//
// Toggling is idempotent in pairs: adding a selector twice removes it again,
// so the set after N toggles depends only on the parity of each selector.
type ExclusionSet struct {
	selectors map[Level]map[string]struct{}
}

// NewExclusionSet returns an empty set.
func NewExclusionSet() *ExclusionSet {
	s := &ExclusionSet{selectors: make(map[Level]map[string]struct{})}
	for _, lvl := range SelectorLevels {
		s.selectors[lvl] = make(map[string]struct{})
	}
	return s
}

// Toggle adds the selector at the given level, or removes it if already
// present. Returns whether the selector is excluded after the call.
// Only selector levels are accepted; subclass toggles are rejected.
func (s *ExclusionSet) Toggle(level Level, selector string) (bool, error) {
	if !level.IsSelector() {
		return false, fmt.Errorf("%w: %q is not a selectable level", ErrInvalidInput, level)
	}
	if selector == "" {
		return false, fmt.Errorf("%w: empty selector", ErrInvalidInput)
	}
	set := s.selectors[level]
	if _, ok := set[selector]; ok {
		delete(set, selector)
		return false, nil
	}
	set[selector] = struct{}{}
	return true, nil
}

// Contains reports whether the selector is currently excluded at the level.
func (s *ExclusionSet) Contains(level Level, selector string) bool {
	_, ok := s.selectors[level][selector]
	return ok
}

// Selectors returns the sorted selectors recorded at a level.
func (s *ExclusionSet) Selectors(level Level) []string {
	return SortedCodes(s.selectors[level])
}

// Reset removes every selector from every level.
func (s *ExclusionSet) Reset() {
	for _, lvl := range SelectorLevels {
		s.selectors[lvl] = make(map[string]struct{})
	}
}

// IsEmpty reports whether no selectors are recorded at any level.
func (s *ExclusionSet) IsEmpty() bool {
	return s.Len() == 0
}

// Len returns the total number of recorded selectors across all levels.
func (s *ExclusionSet) Len() int {
	var n int
	for _, set := range s.selectors {
		n += len(set)
	}
	return n
}

// Clone returns an independent copy of the set.
func (s *ExclusionSet) Clone() *ExclusionSet {
	c := NewExclusionSet()
	for lvl, set := range s.selectors {
		for sel := range set {
			c.selectors[lvl][sel] = struct{}{}
		}
	}
	return c
}

// Impact summarises what a resolved exclusion set removes from the item
// universe, before any index is calculated.
type Impact struct {
	// ItemsExcluded is how many items the selectors resolve to.
	ItemsExcluded int

	// ItemsRemaining is how many items survive the exclusions.
	ItemsRemaining int

	// ExcludedWeight is the summed weight of the excluded items.
	ExcludedWeight float64

	// RemainingWeight is the summed weight of the surviving items.
	RemainingWeight float64

	// TotalWeight is the full item universe weight, for context.
	TotalWeight float64
}
