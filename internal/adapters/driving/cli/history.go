package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List committed custom indices",
	Long:  `Lists every custom index committed to the dataset, newest first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if datasetStore == nil {
		return errors.New("dataset store not configured")
	}

	records, err := datasetStore.ListCommits(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing commits: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No custom indices committed yet.")
		return nil
	}

	cmd.Printf("%-20s  %-28s %6s %9s %9s %6s\n", "Created", "Name", "Items", "Weight", "Excluded", "Rows")
	for _, rec := range records {
		cmd.Printf("%-20s  %-28s %6d %9.2f %9.2f %6d\n",
			rec.CreatedAt, rec.Name, rec.ItemsCount, rec.TotalWeight, rec.ExcludedWeight, rec.Rows)
	}
	return nil
}
