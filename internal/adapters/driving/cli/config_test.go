package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
}

func TestConfigCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range configCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["get"])
	assert.True(t, names["set"])
}

func TestConfigList_ShowsAllKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set("data.weights_dir", "/data/weights"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Configuration (:memory:)")
	assert.Contains(t, out, "/data/weights")
	assert.Contains(t, out, "(not set)")
	for _, key := range configKeys {
		assert.Contains(t, out, key)
	}
}

func TestConfigGet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set("output.default_state", "Lagos"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "get", "output.default_state"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Lagos")
}

func TestConfigGet_MissingKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "get", "data.prices_file"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"data.prices_file" is not set`)
}

func TestConfigSet_RoundTrips(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "set", "mcp.port", "8811"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Set mcp.port = 8811")
	assert.Equal(t, 8811, configStore.GetInt("mcp.port"), "numeric values are stored as numbers")
}

func TestConfigSet_UnknownKeyWarns(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs([]string{"config", "set", "data.typo", "x"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err, "unknown keys are stored anyway")
	assert.Contains(t, errOut.String(), `"data.typo" is not a key cpix reads`)
	assert.Contains(t, out.String(), "Set data.typo = x")
}

func TestConfigList_StoreNotConfigured(t *testing.T) {
	oldStore := configStore
	configStore = nil
	defer func() { configStore = oldStore }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, false, parseConfigValue("false"))
	assert.Equal(t, 8811, parseConfigValue("8811"))
	assert.Equal(t, "weights/", parseConfigValue("weights/"))
	assert.Equal(t, "2024-01", parseConfigValue("2024-01"), "dashed strings stay strings")
}

func TestKnownConfigKey(t *testing.T) {
	assert.True(t, knownConfigKey("data.weights_dir"))
	assert.True(t, knownConfigKey("mcp.port"))
	assert.False(t, knownConfigKey("data.typo"))
}
