package main

import (
	"fmt"
	"os"

	"github.com/pricelab/cpix-cli/internal/adapters/driven/config/file"
	"github.com/pricelab/cpix-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pricelab/cpix-cli/internal/adapters/driven/tabular"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/cli"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/core/services"
)

// version is stamped at release time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(configStore.GetString("data.dataset_path"))
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer store.Close() //nolint:errcheck // shutdown path

	// Weight tables always come from the configured CSV directory. An
	// unset directory only fails once a command actually loads weights,
	// so 'cpix config set' works on a fresh install.
	weightsDir := configStore.GetString("data.weights_dir")
	weights := tabular.NewWeightsDir(weightsDir)

	// Prices come from the wide matrix when one is configured, and from
	// the item-level rows of the main dataset otherwise.
	var prices driven.PriceSource
	var watchPaths []string
	if weightsDir != "" {
		watchPaths = append(watchPaths, weightsDir)
	}
	if pricesFile := configStore.GetString("data.prices_file"); pricesFile != "" {
		prices = tabular.NewPriceMatrix(pricesFile)
		watchPaths = append(watchPaths, pricesFile)
	} else {
		prices = store.PriceSource()
	}

	hierarchyService := services.NewHierarchyService(weights)
	indexService := services.NewIndexService(hierarchyService, prices)
	coreService := services.NewCoreService()
	sessionService := services.NewSessionService(hierarchyService, indexService, store.DatasetStore())

	var newWatcher func() (driven.SourceWatcher, error)
	if len(watchPaths) > 0 {
		paths := watchPaths
		newWatcher = func() (driven.SourceWatcher, error) {
			return tabular.NewWatcher(paths...)
		}
	}

	cli.SetServices(cli.ServiceSet{
		Hierarchy:  hierarchyService,
		Index:      indexService,
		Core:       coreService,
		Session:    sessionService,
		Config:     configStore,
		Dataset:    store.DatasetStore(),
		NewWatcher: newWatcher,
	})
	cli.SetVersion(version)

	return cli.Execute()
}
