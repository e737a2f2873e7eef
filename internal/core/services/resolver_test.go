package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

func toggled(t *testing.T, pairs ...[2]string) *domain.ExclusionSet {
	t.Helper()
	set := domain.NewExclusionSet()
	for _, pair := range pairs {
		_, err := set.Toggle(domain.Level(pair[0]), pair[1])
		require.NoError(t, err)
	}
	return set
}

// TestResolver_DivisionByCodeAndName tests top-tier selectors
func TestResolver_DivisionByCodeAndName(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	byCode := r.Resolve(toggled(t, [2]string{"division", "01"}), h)
	byName := r.Resolve(toggled(t, [2]string{"division", "Food"}), h)

	want := map[string]struct{}{
		"01.1.1.01": {}, "01.1.1.02": {}, "01.2.1.01": {},
	}
	assert.Equal(t, want, byCode)
	assert.Equal(t, want, byName)
}

// TestResolver_LowerTiers tests group, class and item selectors
func TestResolver_LowerTiers(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	tests := []struct {
		name     string
		level    string
		selector string
		want     []string
	}{
		{"group by name", "group", "Bread and cereals", []string{"01.1.1.01", "01.1.1.02"}},
		{"group by code", "group", "01.2", []string{"01.2.1.01"}},
		{"class by code", "class", "02.1.1", []string{"02.1.1.01"}},
		{"item by name", "item", "Rice", []string{"01.1.1.01"}},
		{"item by code", "item", "03.1.1.01", []string{"03.1.1.01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excluded := r.Resolve(toggled(t, [2]string{tt.level, tt.selector}), h)
			assert.ElementsMatch(t, tt.want, domain.SortedCodes(excluded))
		})
	}
}

// TestResolver_UnionAcrossLevels tests that selectors accumulate
func TestResolver_UnionAcrossLevels(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	set := toggled(t,
		[2]string{"division", "Transport"},
		[2]string{"group", "01.2"},
		[2]string{"item", "Bread"},
	)
	excluded := r.Resolve(set, h)

	assert.ElementsMatch(t,
		[]string{"02.1.1.01", "01.2.1.01", "01.1.1.02"},
		domain.SortedCodes(excluded))
}

// TestResolver_UnknownSelectorsSilentlyIneffective tests the typo contract
func TestResolver_UnknownSelectorsSilentlyIneffective(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	set := toggled(t,
		[2]string{"division", "Fod"},
		[2]string{"item", "Rice"},
	)
	excluded := r.Resolve(set, h)

	assert.ElementsMatch(t, []string{"01.1.1.01"}, domain.SortedCodes(excluded),
		"the typo removes nothing, the valid selector still works")

	unknown := r.UnknownSelectors(set, h)
	assert.Equal(t, []string{"division:Fod"}, unknown)
}

// TestResolver_EmptySetExcludesNothing tests the no-op path
func TestResolver_EmptySetExcludesNothing(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	assert.Empty(t, r.Resolve(domain.NewExclusionSet(), h))
	assert.Empty(t, r.Resolve(nil, h))
	assert.Len(t, r.Remaining(nil, h), 5)
}

// TestResolver_ToggleTwiceRestoresResolution tests idempotent toggling
// end to end
func TestResolver_ToggleTwiceRestoresResolution(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	set := toggled(t, [2]string{"division", "Food"})
	before := domain.SortedCodes(r.Resolve(set, h))

	_, err := set.Toggle(domain.LevelGroup, "Fuel")
	require.NoError(t, err)
	_, err = set.Toggle(domain.LevelGroup, "Fuel")
	require.NoError(t, err)

	after := domain.SortedCodes(r.Resolve(set, h))
	assert.Equal(t, before, after)
}

// TestResolver_Impact tests the preview numbers
func TestResolver_Impact(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	excluded := r.Resolve(toggled(t, [2]string{"division", "Food"}), h)
	impact := r.Impact(excluded, h)

	assert.Equal(t, 3, impact.ItemsExcluded)
	assert.Equal(t, 2, impact.ItemsRemaining)
	assert.InDelta(t, 40, impact.ExcludedWeight, 1e-9)
	assert.InDelta(t, 60, impact.RemainingWeight, 1e-9)
	assert.InDelta(t, 100, impact.TotalWeight, 1e-9)
	assert.InDelta(t, impact.TotalWeight, impact.ExcludedWeight+impact.RemainingWeight, 1e-9)
}

// TestResolver_RemainingPreservesHierarchyOrder tests calculator input order
func TestResolver_RemainingPreservesHierarchyOrder(t *testing.T) {
	h := mustBuild(t)
	r := NewResolver()

	excluded := r.Resolve(toggled(t, [2]string{"item", "Bread"}), h)
	remaining := r.Remaining(excluded, h)

	assert.Equal(t, []string{"01.1.1.01", "01.2.1.01", "02.1.1.01", "03.1.1.01"}, remaining)
}
