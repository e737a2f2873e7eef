package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// configKeys lists every key cpix reads, in display order.
var configKeys = []string{
	"data.weights_dir",
	"data.prices_file",
	"data.dataset_path",
	"output.default_state",
	"output.default_sector",
	"mcp.port",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cpix configuration",
	Long: `View and set configuration values stored in ~/.cpix/config.toml.

Known keys:
  data.weights_dir       directory holding the weight CSV tables
  data.prices_file       wide price-relative CSV matrix
  data.dataset_path      directory holding the SQLite dataset
  output.default_state   state stamped on matrix-sourced rows
  output.default_sector  sector stamped on matrix-sourced rows
  mcp.port               default HTTP port for 'cpix mcp serve'`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it immediately.

Values parse as booleans or integers when they look like one, and as
strings otherwise.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s)\n\n", configStore.Path())
	for _, key := range configKeys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-22s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-22s %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("%q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if !knownConfigKey(key) {
		cmd.PrintErrf("Warning: %q is not a key cpix reads\n", key)
	}

	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func knownConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

// parseConfigValue keeps TOML types round-trippable: booleans and integers
// stay typed, everything else is a string.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
