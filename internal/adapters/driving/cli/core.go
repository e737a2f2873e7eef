package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

var (
	coreName        string
	coreHeadlineOld string
	coreHeadlineNew string
	coreExclusions  []string
	coreJSON        bool
)

var coreCmd = &cobra.Command{
	Use:   "core",
	Short: "Derive an ex-items index from published aggregates",
	Long: `Removes named components from an already-published headline index
algebraically, without item-level data, and compares the inflation rates.

Aggregates are written index:weight. Components list both comparison
periods: Name=oldIndex:oldWeight,newIndex:newWeight.

Example:
  cpix core --headline-old 100:100 --headline-new 115.45:100 \
    --exclude "Food=105:40,130:40" --name "CPI Ex. Food"`,
	RunE: runCore,
}

func init() {
	coreCmd.Flags().StringVar(&coreName, "name", "", "scenario name for output")
	coreCmd.Flags().StringVar(&coreHeadlineOld, "headline-old", "", "headline in the earlier period, index:weight")
	coreCmd.Flags().StringVar(&coreHeadlineNew, "headline-new", "", "headline in the later period, index:weight")
	coreCmd.Flags().StringArrayVar(&coreExclusions, "exclude", nil, "component to remove, Name=old,new (repeatable)")
	coreCmd.Flags().BoolVar(&coreJSON, "json", false, "output the result as JSON")
	_ = coreCmd.MarkFlagRequired("headline-old") //nolint:errcheck // flag exists
	_ = coreCmd.MarkFlagRequired("headline-new") //nolint:errcheck // flag exists
	_ = coreCmd.MarkFlagRequired("exclude")      //nolint:errcheck // flag exists
	rootCmd.AddCommand(coreCmd)
}

func runCore(cmd *cobra.Command, _ []string) error {
	if coreService == nil {
		return errors.New("core service not configured")
	}

	headlineOld, err := parseAggregatePoint(coreHeadlineOld)
	if err != nil {
		return fmt.Errorf("--headline-old: %w", err)
	}
	headlineNew, err := parseAggregatePoint(coreHeadlineNew)
	if err != nil {
		return fmt.Errorf("--headline-new: %w", err)
	}

	components := make([]domain.CoreComponent, 0, len(coreExclusions))
	for _, spec := range coreExclusions {
		component, err := parseCoreComponent(spec)
		if err != nil {
			return fmt.Errorf("--exclude: %w", err)
		}
		components = append(components, component)
	}

	input := domain.CoreInput{
		ScenarioName: coreName,
		HeadlineOld:  headlineOld,
		HeadlineNew:  headlineNew,
		Components:   components,
	}

	result, err := coreService.CalculateExItems(cmd.Context(), input)
	if err != nil {
		return err
	}

	if coreJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputCoreTable(cmd, result)
	return nil
}

// parseAggregatePoint parses an "index:weight" pair.
func parseAggregatePoint(s string) (domain.AggregatePoint, error) {
	indexPart, weightPart, ok := strings.Cut(s, ":")
	if !ok {
		return domain.AggregatePoint{}, fmt.Errorf("%w: %q is not index:weight", domain.ErrInvalidInput, s)
	}
	index, err := strconv.ParseFloat(strings.TrimSpace(indexPart), 64)
	if err != nil {
		return domain.AggregatePoint{}, fmt.Errorf("%w: index %q is not a number", domain.ErrInvalidInput, indexPart)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(weightPart), 64)
	if err != nil {
		return domain.AggregatePoint{}, fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidInput, weightPart)
	}
	return domain.AggregatePoint{Index: index, Weight: weight}, nil
}

// parseCoreComponent parses "Name=oldIndex:oldWeight,newIndex:newWeight".
func parseCoreComponent(s string) (domain.CoreComponent, error) {
	name, points, ok := strings.Cut(s, "=")
	if !ok {
		return domain.CoreComponent{}, fmt.Errorf("%w: %q is not Name=old,new", domain.ErrInvalidInput, s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.CoreComponent{}, fmt.Errorf("%w: component name is empty in %q", domain.ErrInvalidInput, s)
	}
	oldPart, newPart, ok := strings.Cut(points, ",")
	if !ok {
		return domain.CoreComponent{}, fmt.Errorf("%w: %q needs an old and a new aggregate", domain.ErrInvalidInput, s)
	}
	oldPoint, err := parseAggregatePoint(strings.TrimSpace(oldPart))
	if err != nil {
		return domain.CoreComponent{}, err
	}
	newPoint, err := parseAggregatePoint(strings.TrimSpace(newPart))
	if err != nil {
		return domain.CoreComponent{}, err
	}
	return domain.CoreComponent{Name: name, Old: oldPoint, New: newPoint}, nil
}

func outputCoreTable(cmd *cobra.Command, result *domain.CoreExclusionResult) {
	cmd.Printf("Scenario: %s\n\n", result.ScenarioName)
	cmd.Printf("  %-12s %12s %12s %12s\n", "", "Old", "New", "Inflation")
	cmd.Printf("  %-12s %12.2f %12.2f %11.2f%%\n",
		"Headline", result.HeadlineOld.Index, result.HeadlineNew.Index, result.HeadlineInflation)
	cmd.Printf("  %-12s %12.2f %12.2f %11.2f%%\n",
		"Ex-items", result.ExOld, result.ExNew, result.ExInflation)
	cmd.Println()
	cmd.Printf("  Weight removed: %.2f old, %.2f new\n", result.ExcludedWeightOld, result.ExcludedWeightNew)
	cmd.Printf("  Difference: %+.2f pp (ex-items minus headline)\n", result.Difference)

	if len(result.Components) > 0 {
		cmd.Println("\n  Excluded components:")
		for _, c := range result.Components {
			cmd.Printf("    %-10s %12.2f %12.2f %11.2f%%\n", c.Name, c.Old.Index, c.New.Index, c.Inflation)
		}
	}
}
