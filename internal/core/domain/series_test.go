package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePeriod tests YYYY-MM and full date parsing
func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{"year-month", "2024-03", Period{2024, time.March}, false},
		{"full date truncates", "2024-03-15", Period{2024, time.March}, false},
		{"month out of range", "2024-13", Period{}, true},
		{"not a period", "March 2024", Period{}, true},
		{"item name column", "Item_Name", Period{}, true},
		{"empty", "", Period{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestPeriod_StringAndDate tests formatting round trips
func TestPeriod_StringAndDate(t *testing.T) {
	p := Period{Year: 2024, Month: time.January}
	assert.Equal(t, "2024-01", p.String())
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), p.Date())
}

// TestPeriod_Before tests chronological ordering
func TestPeriod_Before(t *testing.T) {
	jan := Period{2024, time.January}
	feb := Period{2024, time.February}
	priorDec := Period{2023, time.December}

	assert.True(t, jan.Before(feb))
	assert.True(t, priorDec.Before(jan))
	assert.False(t, feb.Before(jan))
	assert.False(t, jan.Before(jan))
}

// TestPriceSeries_AddAndLookup tests basic storage behaviour
func TestPriceSeries_AddAndLookup(t *testing.T) {
	s := NewPriceSeries()
	g := DefaultGroupKey
	jan := Period{2024, time.January}

	s.Add(g, jan, "01.1.1.01", 104.2)
	s.Add(g, jan, "01.1.1.02", 99.7)

	v, ok := s.Value(g, jan, "01.1.1.01")
	require.True(t, ok)
	assert.InDelta(t, 104.2, v, 1e-9)

	_, ok = s.Value(g, jan, "09.9.9.99")
	assert.False(t, ok)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"01.1.1.01", "01.1.1.02"}, s.Items())
	assert.True(t, s.HasItem("01.1.1.02"))
}

// TestPriceSeries_PeriodsStaySorted tests insertion out of order
func TestPriceSeries_PeriodsStaySorted(t *testing.T) {
	s := NewPriceSeries()
	g := DefaultGroupKey

	s.Add(g, Period{2024, time.March}, "a", 1)
	s.Add(g, Period{2023, time.December}, "a", 1)
	s.Add(g, Period{2024, time.January}, "a", 1)
	s.Add(g, Period{2024, time.January}, "b", 1)

	periods := s.Periods(g)
	require.Len(t, periods, 3)
	assert.Equal(t, Period{2023, time.December}, periods[0])
	assert.Equal(t, Period{2024, time.January}, periods[1])
	assert.Equal(t, Period{2024, time.March}, periods[2])
}

// TestPriceSeries_GroupsSorted tests deterministic group iteration order
func TestPriceSeries_GroupsSorted(t *testing.T) {
	s := NewPriceSeries()
	jan := Period{2024, time.January}

	s.Add(GroupKey{State: "Lagos", Sector: "Urban"}, jan, "a", 1)
	s.Add(GroupKey{State: "Abuja", Sector: "Urban"}, jan, "a", 1)
	s.Add(GroupKey{State: "Abuja", Sector: "Rural"}, jan, "a", 1)

	groups := s.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, GroupKey{State: "Abuja", Sector: "Rural"}, groups[0])
	assert.Equal(t, GroupKey{State: "Abuja", Sector: "Urban"}, groups[1])
	assert.Equal(t, GroupKey{State: "Lagos", Sector: "Urban"}, groups[2])
}

// TestPriceSeries_ItemSeries tests the per-item ordered view
func TestPriceSeries_ItemSeries(t *testing.T) {
	s := NewPriceSeries()
	g := DefaultGroupKey
	s.Add(g, Period{2024, time.February}, "rice", 102)
	s.Add(g, Period{2024, time.January}, "rice", 101)
	s.Add(g, Period{2024, time.March}, "bread", 100)

	obs := s.ItemSeries(g, "rice")
	require.Len(t, obs, 2)
	assert.Equal(t, Period{2024, time.January}, obs[0].Period)
	assert.InDelta(t, 101, obs[0].Value, 1e-9)
	assert.Equal(t, Period{2024, time.February}, obs[1].Period)

	assert.Empty(t, s.ItemSeries(g, "missing"))
}

// TestPriceSeries_OverwriteKeepsOnePeriodEntry tests duplicate adds
func TestPriceSeries_OverwriteKeepsOnePeriodEntry(t *testing.T) {
	s := NewPriceSeries()
	g := DefaultGroupKey
	jan := Period{2024, time.January}

	s.Add(g, jan, "rice", 100)
	s.Add(g, jan, "rice", 105)

	v, ok := s.Value(g, jan, "rice")
	require.True(t, ok)
	assert.InDelta(t, 105, v, 1e-9)
	assert.Len(t, s.Periods(g), 1)
	assert.Equal(t, 1, s.Len())
}
