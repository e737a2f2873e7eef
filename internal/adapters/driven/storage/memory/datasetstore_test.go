package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

func testRow(month int, item, code string, index float64) domain.ResultRow {
	return domain.ResultRow{
		Date:     time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Year:     2024,
		Month:    month,
		State:    "All",
		Sector:   "All",
		Division: "Food",
		Group:    domain.Aggregate,
		Class:    domain.Aggregate,
		Subclass: domain.Aggregate,
		Item:     item,
		Code:     code,
		Index:    index,
	}
}

func TestDatasetStore_AppendAndRows(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.AppendRows(ctx, []domain.ResultRow{
		testRow(1, "Rice", "01.1.1.01", 110),
		testRow(2, "Rice", "01.1.1.01", 112),
	}))

	assert.Len(t, store.Rows(), 2)
}

func TestDatasetStore_ItemSeriesSkipsAggregates(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.AppendRows(ctx, []domain.ResultRow{
		testRow(1, "Rice", "01.1.1.01", 110),
		testRow(1, domain.Aggregate, domain.Aggregate, 105.2),
	}))

	series, err := store.ItemSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	assert.True(t, series.HasItem("01.1.1.01"))
}

func TestDatasetStore_SaveStandalone(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	path, err := store.SaveStandalone(ctx, "custom_cpi_batch_1", []domain.ResultRow{
		testRow(1, domain.Aggregate, domain.Aggregate, 108),
	})
	require.NoError(t, err)
	assert.Equal(t, "custom_cpi_batch_1.csv", path)

	rows, ok := store.Standalone("custom_cpi_batch_1")
	require.True(t, ok)
	assert.Len(t, rows, 1)
	assert.Empty(t, store.Rows(), "standalone saves stay out of the main dataset")
}

func TestDatasetStore_CommitsNewestFirst(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.RecordCommit(ctx, driven.CommitRecord{ID: "a", CreatedAt: "2024-02-15T10:00:00Z"}))
	require.NoError(t, store.RecordCommit(ctx, driven.CommitRecord{ID: "b", CreatedAt: "2024-02-15T11:00:00Z"}))

	records, err := store.ListCommits(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
}

func TestDatasetStore_RecordCommitReplacesByID(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.RecordCommit(ctx, driven.CommitRecord{ID: "a", Name: "First"}))
	require.NoError(t, store.RecordCommit(ctx, driven.CommitRecord{ID: "a", Name: "Second"}))

	records, err := store.ListCommits(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Second", records[0].Name)
}
