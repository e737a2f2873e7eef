// Package home provides the session overview and action menu for the TUI.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// Item represents a single menu option.
type Item struct {
	Label string
	// Level routes to the selector view for that tier when set.
	Level domain.Level
	// View is the navigation target when Level is empty.
	View messages.ViewType
	// Reset clears the working exclusions in place.
	Reset bool
	// Quit exits the app.
	Quit bool
}

// View represents the wizard home: session status, exclusion impact and the
// action menu.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int

	session driving.SessionService
	ctx     context.Context

	current   *domain.Session
	hierarchy *domain.Hierarchy
	impact    domain.Impact
	hasImpact bool
	err       error

	width  int
	height int
	ready  bool
}

// NewView creates a new home view.
func NewView(s *styles.Styles, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Toggle divisions", Level: domain.LevelDivision},
			{Label: "Toggle groups", Level: domain.LevelGroup},
			{Label: "Toggle classes", Level: domain.LevelClass},
			{Label: "Toggle items", Level: domain.LevelItem},
			{Label: "Reset exclusions", Reset: true},
			{Label: "Calculate index", View: messages.ViewName},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		selected: 0,
		session:  session,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the home view and refreshes the exclusion impact.
func (v *View) Init() tea.Cmd {
	return v.loadImpact()
}

// loadImpact resolves the working exclusions against the hierarchy.
func (v *View) loadImpact() tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ImpactLoaded{Err: ErrNoSessionService}
		}
		impact, err := v.session.Preview(v.ctx)
		return messages.ImpactLoaded{Impact: impact, Err: err}
	}
}

// Update handles messages for the home view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ImpactLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.impact = msg.Impact
		v.hasImpact = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			return v.activate(v.items[v.selected])

		case "r":
			return v.resetExclusions()

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// activate performs the selected menu item's action.
func (v *View) activate(item Item) (*View, tea.Cmd) {
	switch {
	case item.Quit:
		return v, tea.Quit

	case item.Reset:
		return v.resetExclusions()

	case item.Level != "":
		level := item.Level
		return v, func() tea.Msg {
			return messages.LevelChosen{Level: level}
		}

	default:
		target := item.View
		return v, func() tea.Msg {
			return messages.ViewChanged{View: target}
		}
	}
}

// resetExclusions clears the working set and reloads the impact line.
func (v *View) resetExclusions() (*View, tea.Cmd) {
	if v.session == nil {
		v.err = ErrNoSessionService
		return v, nil
	}
	if err := v.session.ResetExclusions(); err != nil {
		v.err = err
		return v, nil
	}
	v.err = nil
	return v, v.loadImpact()
}

// View renders the home view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	// Title
	title := v.styles.Title.Render("cpix")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Subtitle
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("Custom Index Wizard")
	b.WriteString(subtitle)
	b.WriteString("\n\n")

	// Session status
	b.WriteString(v.renderStatus())
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	// Menu items
	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		line := cursor + style.Render(item.Label)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Footer with keybindings
	b.WriteString("\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[j/k] Navigate  [Enter] Select  [r] Reset  [q] Quit")
	b.WriteString(footer)

	return b.String()
}

// renderStatus summarises the session phase and the working exclusions.
func (v *View) renderStatus() string {
	lines := make([]string, 0, 3)

	if v.current != nil {
		lines = append(lines, v.styles.Normal.Render(fmt.Sprintf(
			"Session: %s | %d indices calculated",
			v.current.State, len(v.current.Results),
		)))
	} else {
		lines = append(lines, v.styles.Muted.Render("Session: starting..."))
	}

	if v.hierarchy != nil {
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf(
			"Universe: %d items across %d divisions",
			v.hierarchy.Len(domain.LevelItem), v.hierarchy.Len(domain.LevelDivision),
		)))
	}

	switch {
	case !v.hasImpact:
		lines = append(lines, v.styles.Muted.Render("Exclusions: loading..."))
	case v.impact.ItemsExcluded == 0:
		lines = append(lines, v.styles.Muted.Render("Exclusions: none"))
	default:
		share := 0.0
		if v.impact.TotalWeight > 0 {
			share = v.impact.ExcludedWeight / v.impact.TotalWeight * 100
		}
		lines = append(lines, v.styles.Normal.Render(fmt.Sprintf(
			"Exclusions: %d items, weight %.2f of %.2f (%.1f%%)",
			v.impact.ItemsExcluded, v.impact.ExcludedWeight, v.impact.TotalWeight, share,
		)))
	}

	return strings.Join(lines, "\n")
}

// SetSession stores the active session for status display.
func (v *View) SetSession(session *domain.Session) {
	v.current = session
}

// SetHierarchy stores the weight hierarchy for the universe line.
func (v *View) SetHierarchy(hierarchy *domain.Hierarchy) {
	v.hierarchy = hierarchy
}

// Session returns the session shown in the status line.
func (v *View) Session() *domain.Session {
	return v.current
}

// Impact returns the displayed exclusion impact.
func (v *View) Impact() domain.Impact {
	return v.impact
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
