package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No custom indices committed yet.")
}

func TestHistoryCmd_ListsCommitsNewestFirst(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, datasetStore.RecordCommit(ctx, driven.CommitRecord{
		ID: "a", Name: "CPI ex Food", ItemsCount: 2, TotalWeight: 60,
		ExcludedWeight: 40, Rows: 2, CreatedAt: "2024-03-01T10:00:00Z",
	}))
	require.NoError(t, datasetStore.RecordCommit(ctx, driven.CommitRecord{
		ID: "b", Name: "CPI ex Energy", ItemsCount: 4, TotalWeight: 65,
		ExcludedWeight: 35, Rows: 4, CreatedAt: "2024-03-02T10:00:00Z",
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "CPI ex Food")
	assert.Contains(t, out, "CPI ex Energy")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("CPI ex Energy")), bytes.Index(buf.Bytes(), []byte("CPI ex Food")),
		"newer commits print first")
	assert.Contains(t, out, "60.00")
	assert.Contains(t, out, "35.00")
}

func TestHistoryCmd_StoreNotConfigured(t *testing.T) {
	oldStore := datasetStore
	datasetStore = nil
	defer func() { datasetStore = oldStore }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"history"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset store not configured")
}
