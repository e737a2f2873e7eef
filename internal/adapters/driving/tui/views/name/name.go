// Package name provides the index naming and calculation view.
package name

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/components/input"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/keymap"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// View names the next custom index and runs the calculation.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.NameInput

	session driving.SessionService
	ctx     context.Context

	calculating bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new naming view.
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
		input:   input.NewNameInput(s),
		session: session,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the naming view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CalculationDone:
		// Success routes to the result view at the app level; only the
		// failure that kept the session editing lands back here.
		v.calculating = false
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil
	}

	// Forward to input component
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	return v, inputCmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHome}
		}
	}

	if msg.Type == tea.KeyEnter {
		if v.calculating {
			return v, nil
		}
		v.calculating = true
		v.err = nil
		return v, v.calculate(strings.TrimSpace(v.input.Value()))
	}

	// All other keys go to the input
	v.input, _ = v.input.Update(msg)
	return v, nil
}

// calculate runs the index calculation for the current selection. An empty
// name gets a timestamped default from the service.
func (v *View) calculate(indexName string) tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.CalculationDone{Err: ErrNoSessionService}
		}
		result, err := v.session.Calculate(v.ctx, indexName)
		return messages.CalculationDone{Result: result, Err: err}
	}
}

// View renders the naming view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	// Header
	header := v.styles.Title.Render("Name Your Index")
	sections = append(sections, header, "")

	// Hint
	hint := v.styles.Muted.Render("Leave blank for a timestamped default name")
	sections = append(sections, hint, "")

	// Name input
	sections = append(sections, v.input.View(), "")

	// Progress indicator
	if v.calculating {
		sections = append(sections, v.styles.Muted.Render("Calculating..."), "")
	}

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Footer
	footer := v.styles.Muted.Render("[Enter] Calculate  [Esc] Back")
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Reset clears the input and any prior error.
func (v *View) Reset() {
	v.input.Reset()
	v.err = nil
	v.calculating = false
}

// Value returns the current name input.
func (v *View) Value() string {
	return v.input.Value()
}

// SetValue sets the name input.
func (v *View) SetValue(value string) {
	v.input.SetValue(value)
}

// Calculating reports whether a calculation is in flight.
func (v *View) Calculating() bool {
	return v.calculating
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
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
