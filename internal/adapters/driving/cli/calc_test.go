package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

func resetCalcFlags() {
	calcName = ""
	calcExDivision = nil
	calcExGroup = nil
	calcExClass = nil
	calcExItem = nil
	calcJSON = false
	calcWatch = false
}

func TestCalcCmd_Use(t *testing.T) {
	assert.Equal(t, "calc", calcCmd.Use)
}

func TestCalcCmd_Flags(t *testing.T) {
	for _, name := range []string{"name", "exclude-division", "exclude-group", "exclude-class", "exclude-item", "json", "watch"} {
		assert.NotNil(t, calcCmd.Flags().Lookup(name), "flag %q should exist", name)
	}
}

func TestCalcCmd_Headline(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Index: All Items")
	assert.Contains(t, out, "Items: 5 selected, 0 excluded")
	assert.Contains(t, out, "Weight: 100.00 selected, 0.00 excluded")
	assert.Contains(t, out, "108.00")
	assert.Contains(t, out, "110.00")
	assert.Contains(t, out, "1.85", "February month-on-month")
}

func TestCalcCmd_ExcludeDivisionByName(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc", "--name", "CPI ex Food", "--exclude-division", "Food"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Index: CPI ex Food")
	assert.Contains(t, out, "Items: 2 selected, 3 excluded")
	assert.Contains(t, out, "Weight: 60.00 selected, 40.00 excluded")
	assert.Contains(t, out, "109.58")
	assert.Contains(t, out, "111.58")
}

func TestCalcCmd_ExcludeItemDefaultsName(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc", "--exclude-item", "02.1.1.01"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Index: Custom Index")
	assert.Contains(t, out, "Items: 4 selected, 1 excluded")
}

func TestCalcCmd_UnknownSelectorWarns(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs([]string{"calc", "--exclude-item", "Bananas"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, errOut.String(), `"Bananas" matches nothing`)
	assert.Contains(t, out.String(), "Items: 5 selected, 0 excluded", "unknown selectors leave the selection whole")
}

func TestCalcCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc", "--json"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Name": "All Items"`)
	assert.Contains(t, buf.String(), `"ItemsCount": 5`)
	assert.Contains(t, buf.String(), `"Series"`)
}

func TestCalcCmd_AllExcludedFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"calc",
		"--exclude-division", "01",
		"--exclude-division", "02",
		"--exclude-division", "03",
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all items excluded")
}

func TestCalcCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexService
	indexService = nil
	defer func() { indexService = oldService }()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestCalcCmd_WatchNeedsFileSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetCalcFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calc", "--watch"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch mode requires file-backed")
}

func TestBuildExclusionSet_TogglesEveryLevel(t *testing.T) {
	set, err := buildExclusionSet(
		[]string{"Food"},
		[]string{"02.1"},
		[]string{"Cereals"},
		[]string{"03.1.1.01", " padded "},
	)

	require.NoError(t, err)
	assert.Equal(t, 5, set.Len())
	assert.True(t, set.Contains(domain.LevelDivision, "Food"))
	assert.True(t, set.Contains(domain.LevelGroup, "02.1"))
	assert.True(t, set.Contains(domain.LevelClass, "Cereals"))
	assert.True(t, set.Contains(domain.LevelItem, "padded"), "selectors are trimmed")
}

func TestBuildExclusionSet_EmptySelector(t *testing.T) {
	_, err := buildExclusionSet(nil, []string{"  "}, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "-", formatChange(1.23, false))
	assert.Equal(t, "1.85", formatChange(1.85185, true))
	assert.Equal(t, "-4.23", formatChange(-4.23, true))
}
