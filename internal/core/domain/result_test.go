package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIndexResult_Rows tests flattening into output artifact records
func TestIndexResult_Rows(t *testing.T) {
	mom := 1.9048
	result := IndexResult{
		ID:               "res-1",
		Name:             "CPI ex Food",
		ItemsCount:       42,
		TotalWeight:      60,
		NormalizedWeight: 100,
		Series: []GroupSeries{
			{
				Group: GroupKey{State: "All", Sector: "All"},
				Points: []IndexPoint{
					{Period: Period{2024, time.January}, Index: 105.0},
					{Period: Period{2024, time.February}, Index: 107.0, MoM: mom, HasMoM: true},
				},
			},
		},
	}

	rows := result.Rows()
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, "CPI ex Food", first.Division)
	assert.Equal(t, Aggregate, first.Group)
	assert.Equal(t, Aggregate, first.Class)
	assert.Equal(t, Aggregate, first.Subclass)
	assert.Equal(t, Aggregate, first.Item)
	assert.Equal(t, Aggregate, first.Code)
	assert.Nil(t, first.MoM, "first period writes an empty change cell")
	assert.Nil(t, first.YoY)

	second := rows[1]
	require.NotNil(t, second.MoM)
	assert.InDelta(t, mom, *second.MoM, 1e-9)
	assert.Nil(t, second.YoY)
}

// TestIndexResult_Points tests the single-stream convenience accessor
func TestIndexResult_Points(t *testing.T) {
	empty := IndexResult{}
	assert.Nil(t, empty.Points())

	result := IndexResult{Series: []GroupSeries{{
		Group:  DefaultGroupKey,
		Points: []IndexPoint{{Period: Period{2024, time.January}, Index: 100}},
	}}}
	require.Len(t, result.Points(), 1)
	assert.Equal(t, 1, result.PeriodCount())
}

// TestSession_Rows_Order tests that session rows preserve calculation order
func TestSession_Rows_Order(t *testing.T) {
	point := func(name string) IndexResult {
		return IndexResult{
			Name: name,
			Series: []GroupSeries{{
				Group:  DefaultGroupKey,
				Points: []IndexPoint{{Period: Period{2024, time.January}, Index: 100}},
			}},
		}
	}
	session := Session{
		State:   SessionFinished,
		Results: []IndexResult{point("First"), point("Second")},
	}

	rows := session.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Division)
	assert.Equal(t, "Second", rows[1].Division)
}

// TestSessionState_IsValid_Enum tests the phase enum
func TestSessionState_IsValid_Enum(t *testing.T) {
	assert.True(t, SessionEditing.IsValid())
	assert.True(t, SessionCalculated.IsValid())
	assert.True(t, SessionFinished.IsValid())
	assert.False(t, SessionState("paused").IsValid())
}

// TestParseCommitChoice tests names and numeric menu shortcuts
func TestParseCommitChoice(t *testing.T) {
	tests := []struct {
		input string
		want  CommitChoice
	}{
		{"1", CommitAppend},
		{"append", CommitAppend},
		{"2", CommitStandalone},
		{"standalone", CommitStandalone},
		{"3", CommitDiscard},
		{"discard", CommitDiscard},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommitChoice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
			assert.NotEmpty(t, got.Description())
		})
	}

	_, err := ParseCommitChoice("4")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, CommitChoice("export").IsValid())
}
