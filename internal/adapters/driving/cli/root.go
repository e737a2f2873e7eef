package cli

import (
	"github.com/spf13/cobra"

	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// version is the build version, overridden at release time via SetVersion.
var version = "dev"

// Services used by the commands. main wires them before Execute; tests swap
// individual vars and restore them.
var (
	hierarchyService driving.HierarchyService
	indexService     driving.IndexService
	coreService      driving.CoreService
	sessionService   driving.SessionService
	configStore      driven.ConfigStore
	datasetStore     driven.DatasetStore
	newSourceWatcher func() (driven.SourceWatcher, error)
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cpix",
	Short: "Hierarchical weighted price index calculator",
	Long: `cpix calculates consumer price indices over a weighted item hierarchy.

Exclude divisions, groups, classes or items to build custom indices,
derive core indices algebraically from published aggregates, or run the
interactive wizard for the guided session workflow.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// ServiceSet holds everything main wires into the command layer.
type ServiceSet struct {
	Hierarchy driving.HierarchyService
	Index     driving.IndexService
	Core      driving.CoreService
	Session   driving.SessionService
	Config    driven.ConfigStore
	Dataset   driven.DatasetStore

	// NewWatcher builds a watcher over the configured file sources. Nil
	// when the inputs are not file-backed; watch mode reports that.
	NewWatcher func() (driven.SourceWatcher, error)
}

// SetServices injects the service implementations the commands run against.
func SetServices(s ServiceSet) {
	hierarchyService = s.Hierarchy
	indexService = s.Index
	coreService = s.Core
	sessionService = s.Session
	configStore = s.Config
	datasetStore = s.Dataset
	newSourceWatcher = s.NewWatcher
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose calculation logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
