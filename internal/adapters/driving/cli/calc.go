package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

var (
	calcName       string
	calcExDivision []string
	calcExGroup    []string
	calcExClass    []string
	calcExItem     []string
	calcJSON       bool
	calcWatch      bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a price index over the current selection",
	Long: `Calculates a weighted price index over every item the exclusions leave in.

Without exclusions this is the headline all-items index. Exclusion flags
take a code or an exact name and may be repeated; the surviving items'
weights are renormalized to 100 before aggregation.

Examples:
  # Headline index
  cpix calc

  # Ex-food index by division name
  cpix calc --name "CPI ex Food" --exclude-division Food

  # Recalculate whenever the weight or price files change
  cpix calc --exclude-item 01.1.1.01 --watch`,
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVar(&calcName, "name", "", "index name for output rows")
	calcCmd.Flags().StringArrayVar(&calcExDivision, "exclude-division", nil, "division code or name to exclude (repeatable)")
	calcCmd.Flags().StringArrayVar(&calcExGroup, "exclude-group", nil, "group code or name to exclude (repeatable)")
	calcCmd.Flags().StringArrayVar(&calcExClass, "exclude-class", nil, "class code or name to exclude (repeatable)")
	calcCmd.Flags().StringArrayVar(&calcExItem, "exclude-item", nil, "item code or name to exclude (repeatable)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "output the result as JSON")
	calcCmd.Flags().BoolVar(&calcWatch, "watch", false, "recalculate when the source files change")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	exclusions, err := buildExclusionSet(calcExDivision, calcExGroup, calcExClass, calcExItem)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	warnUnknownSelectors(ctx, cmd, exclusions)

	name := calcName
	if name == "" {
		name = "All Items"
		if !exclusions.IsEmpty() {
			name = "Custom Index"
		}
	}

	if calcWatch {
		return runCalcWatch(ctx, cmd, name, exclusions)
	}
	return calcOnce(ctx, cmd, name, exclusions)
}

func calcOnce(ctx context.Context, cmd *cobra.Command, name string, exclusions *domain.ExclusionSet) error {
	result, err := indexService.Calculate(ctx, name, exclusions)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	if calcJSON {
		return outputResultJSON(cmd, result)
	}
	outputResultTable(cmd, result)
	return nil
}

// priceInvalidator is implemented by index services that cache the price
// series between calculations.
type priceInvalidator interface {
	InvalidatePrices()
}

func runCalcWatch(ctx context.Context, cmd *cobra.Command, name string, exclusions *domain.ExclusionSet) error {
	if newSourceWatcher == nil {
		return errors.New("watch mode requires file-backed weight and price sources")
	}
	watcher, err := newSourceWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // shutdown path

	if err := calcOnce(ctx, cmd, name, exclusions); err != nil {
		cmd.PrintErrf("Error: %v\n", err)
	}
	cmd.Println("\nWatching for source changes. Press Ctrl+C to stop.")

	for {
		select {
		case path, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			cmd.Printf("\nSource changed: %s\n", path)
			if _, err := hierarchyService.Reload(ctx); err != nil {
				cmd.PrintErrf("Error: hierarchy reload failed: %v\n", err)
				continue
			}
			if inv, ok := indexService.(priceInvalidator); ok {
				inv.InvalidatePrices()
			}
			if err := calcOnce(ctx, cmd, name, exclusions); err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// buildExclusionSet toggles every flag value into a fresh set, level by
// level in hierarchy order.
func buildExclusionSet(divisions, groups, classes, items []string) (*domain.ExclusionSet, error) {
	set := domain.NewExclusionSet()
	byLevel := []struct {
		level     domain.Level
		selectors []string
	}{
		{domain.LevelDivision, divisions},
		{domain.LevelGroup, groups},
		{domain.LevelClass, classes},
		{domain.LevelItem, items},
	}
	for _, entry := range byLevel {
		for _, sel := range entry.selectors {
			if _, err := set.Toggle(entry.level, strings.TrimSpace(sel)); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// warnUnknownSelectors reports selectors that match nothing. The calculation
// ignores them; the warning is the only place a typo surfaces.
func warnUnknownSelectors(ctx context.Context, cmd *cobra.Command, exclusions *domain.ExclusionSet) {
	if exclusions.IsEmpty() {
		return
	}
	unknown, err := indexService.UnknownSelectors(ctx, exclusions)
	if err != nil {
		return
	}
	for _, sel := range unknown {
		cmd.PrintErrf("Warning: exclusion %q matches nothing and has no effect\n", sel)
	}
}

func outputResultJSON(cmd *cobra.Command, result *domain.IndexResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultTable(cmd *cobra.Command, result *domain.IndexResult) {
	cmd.Printf("Index: %s\n", result.Name)
	cmd.Printf("Items: %d selected, %d excluded\n", result.ItemsCount, result.ExcludedCount)
	cmd.Printf("Weight: %.2f selected, %.2f excluded, renormalized to %.0f\n",
		result.TotalWeight, result.ExcludedWeight, result.NormalizedWeight)

	for _, gs := range result.Series {
		cmd.Println()
		if gs.Group != domain.DefaultGroupKey {
			cmd.Printf("[%s]\n", gs.Group)
		}
		cmd.Printf("  %-8s %10s %8s %8s\n", "Period", "Index", "MoM%", "YoY%")
		for _, pt := range gs.Points {
			cmd.Printf("  %-8s %10.2f %8s %8s\n",
				pt.Period, pt.Index, formatChange(pt.MoM, pt.HasMoM), formatChange(pt.YoY, pt.HasYoY))
		}
	}
}

// formatChange renders a derived change, or a dash for the periods where
// none is defined yet.
func formatChange(v float64, defined bool) string {
	if !defined {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
