package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

var (
	impactExDivision []string
	impactExGroup    []string
	impactExClass    []string
	impactExItem     []string
	impactJSON       bool
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Preview what an exclusion set removes",
	Long: `Resolves the exclusion flags against the hierarchy and reports how many
items and how much weight they remove, without calculating an index.

Example:
  cpix impact --exclude-division Food --exclude-item 02.1.1.01`,
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringArrayVar(&impactExDivision, "exclude-division", nil, "division code or name to exclude (repeatable)")
	impactCmd.Flags().StringArrayVar(&impactExGroup, "exclude-group", nil, "group code or name to exclude (repeatable)")
	impactCmd.Flags().StringArrayVar(&impactExClass, "exclude-class", nil, "class code or name to exclude (repeatable)")
	impactCmd.Flags().StringArrayVar(&impactExItem, "exclude-item", nil, "item code or name to exclude (repeatable)")
	impactCmd.Flags().BoolVar(&impactJSON, "json", false, "output the impact as JSON")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	exclusions, err := buildExclusionSet(impactExDivision, impactExGroup, impactExClass, impactExItem)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	warnUnknownSelectors(ctx, cmd, exclusions)

	impact, err := indexService.Preview(ctx, exclusions)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if impactJSON {
		data, err := json.MarshalIndent(impact, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal impact: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputImpact(cmd, impact)
	return nil
}

func outputImpact(cmd *cobra.Command, impact domain.Impact) {
	cmd.Println("Exclusion impact:")
	cmd.Printf("  Items excluded:   %d\n", impact.ItemsExcluded)
	cmd.Printf("  Items remaining:  %d\n", impact.ItemsRemaining)
	if impact.TotalWeight > 0 {
		cmd.Printf("  Weight excluded:  %.2f of %.2f (%.1f%%)\n",
			impact.ExcludedWeight, impact.TotalWeight,
			impact.ExcludedWeight/impact.TotalWeight*100)
	} else {
		cmd.Printf("  Weight excluded:  %.2f\n", impact.ExcludedWeight)
	}
	cmd.Printf("  Weight remaining: %.2f\n", impact.RemainingWeight)
}
