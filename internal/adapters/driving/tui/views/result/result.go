// Package result provides the calculated index summary view.
package result

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/keymap"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// View shows a freshly calculated index and takes the continue or finish
// decision.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	session driving.SessionService

	result *domain.IndexResult

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new result view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		session: session,
		width:   80,
		height:  24,
	}
}

// Init initialises the result view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the result view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg processes the continue or finish decision.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc keeps the exclusions and goes back to editing, same as n.
	if msg.Type == tea.KeyEsc {
		return v, v.decide(false, true)
	}

	switch msg.String() {
	case "n":
		return v, v.decide(false, true)
	case "c":
		return v, v.decide(true, true)
	case "f":
		return v, v.decide(false, false)
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// decide moves the session on and navigates to the matching view.
func (v *View) decide(clearExclusions, wantMore bool) tea.Cmd {
	if v.session == nil {
		v.err = ErrNoSessionService
		return nil
	}

	if err := v.session.ContinueOrFinish(clearExclusions, wantMore); err != nil {
		v.err = err
		return nil
	}

	v.err = nil
	target := messages.ViewSave
	if wantMore {
		target = messages.ViewHome
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: target}
	}
}

// View renders the result view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	if v.result == nil {
		return v.styles.Muted.Render("No result to show")
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render(v.result.Name)
	sections = append(sections, header, "")

	// Summary
	summary := v.styles.Normal.Render(fmt.Sprintf(
		"Items: %d selected, %d excluded\nWeight: %.2f selected, %.2f excluded, renormalized to %.0f",
		v.result.ItemsCount, v.result.ExcludedCount,
		v.result.TotalWeight, v.result.ExcludedWeight, v.result.NormalizedWeight,
	))
	sections = append(sections, summary, "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Series tables
	sections = append(sections, v.renderSeries())

	// Footer
	footer := v.styles.Muted.Render("[n] Another index  [c] Another, cleared  [f] Finish  [q] Quit")
	sections = append(sections, "", footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSeries formats the period table, windowed to the most recent periods
// that fit the terminal.
func (v *View) renderSeries() string {
	var b strings.Builder

	// Rough budget: header, summary, footer and per-group headers eat the rest.
	rowBudget := v.height - 12
	if rowBudget < 4 {
		rowBudget = 4
	}

	for gi, gs := range v.result.Series {
		if gi > 0 {
			b.WriteString("\n")
		}
		if gs.Group != domain.DefaultGroupKey {
			b.WriteString(v.styles.Subtitle.Render("[" + gs.Group.String() + "]"))
			b.WriteString("\n")
		}

		b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
			"  %-8s %10s %8s %8s", "Period", "Index", "MoM%", "YoY%")))
		b.WriteString("\n")

		points := gs.Points
		if len(points) > rowBudget {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
				"  ... %d earlier periods", len(points)-rowBudget)))
			b.WriteString("\n")
			points = points[len(points)-rowBudget:]
		}

		for _, pt := range points {
			b.WriteString(fmt.Sprintf("  %-8s %10.2f %8s %8s",
				pt.Period,
				pt.Index,
				v.renderChange(pt.MoM, pt.HasMoM),
				v.renderChange(pt.YoY, pt.HasYoY),
			))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderChange styles a derived change, green for rising and red for falling,
// or a dash where none is defined yet.
func (v *View) renderChange(value float64, defined bool) string {
	if !defined {
		return fmt.Sprintf("%8s", "-")
	}

	text := fmt.Sprintf("%8s", strconv.FormatFloat(value, 'f', 2, 64))
	if value > 0 {
		return v.styles.Positive.Render(text)
	}
	if value < 0 {
		return v.styles.Negative.Render(text)
	}
	return text
}

// SetResult installs the index to display.
func (v *View) SetResult(result *domain.IndexResult) {
	v.result = result
	v.err = nil
}

// Result returns the displayed index.
func (v *View) Result() *domain.IndexResult {
	return v.result
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
