package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive custom index wizard",
	Long: `Launch the guided session for building custom indices.

The wizard walks the exclusion workflow: toggle divisions, groups, classes
or items out of the basket, preview the weight impact, calculate, then
append the results to the dataset or save them as a standalone file.

Controls:
  ↑/k, ↓/j - Navigate
  Space    - Toggle exclusion
  Enter    - Confirm / Select
  Esc      - Back
  q        - Quit`,
	RunE: runWizard,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("wizard requires an interactive terminal")
	}

	// Keep a stack trace visible after the alt screen closes.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in wizard: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Session:   sessionService,
		Hierarchy: hierarchyService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create wizard: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	return nil
}
