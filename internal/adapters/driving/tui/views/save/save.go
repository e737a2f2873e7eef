// Package save provides the commit choice view for a finished session.
package save

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/keymap"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// View takes the commit decision for a finished session's results.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	session driving.SessionService
	ctx     context.Context

	choices  []domain.CommitChoice
	selected int

	committing bool
	outcome    string

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new save view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		choices: []domain.CommitChoice{
			domain.CommitAppend,
			domain.CommitStandalone,
			domain.CommitDiscard,
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

// Init initialises the save view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the save view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CommitDone:
		v.committing = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.outcome = msg.Outcome
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Once committed, any key leaves the wizard.
	if v.outcome != "" {
		return v, tea.Quit
	}

	if v.committing {
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		return v, v.commit(v.choices[v.selected])
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.moveUp()
		return v, nil
	case tea.KeyDown:
		v.moveDown()
		return v, nil
	default:
		// Handle other keys
	}

	switch msg.String() {
	case "k":
		v.moveUp()
		return v, nil
	case "j":
		v.moveDown()
		return v, nil
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		v.selected = idx
		return v, v.commit(v.choices[idx])
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

func (v *View) moveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

func (v *View) moveDown() {
	if v.selected < len(v.choices)-1 {
		v.selected++
	}
}

// commit hands the session's rows to persistence.
func (v *View) commit(choice domain.CommitChoice) tea.Cmd {
	v.committing = true
	v.err = nil
	return func() tea.Msg {
		if v.session == nil {
			return messages.CommitDone{Err: ErrNoSessionService}
		}
		outcome, err := v.session.Commit(v.ctx, choice)
		return messages.CommitDone{Outcome: outcome, Err: err}
	}
}

// View renders the save view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render("Save Your Indices")
	sections = append(sections, header, "")

	// After a successful commit only the outcome remains.
	if v.outcome != "" {
		sections = append(sections, v.styles.Success.Render(v.outcome), "")
		sections = append(sections, v.styles.Muted.Render("Press any key to exit"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	// Row summary
	if summary := v.renderSummary(); summary != "" {
		sections = append(sections, summary, "")
	}

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Choices
	sections = append(sections, v.renderChoices())

	// Progress indicator
	if v.committing {
		sections = append(sections, "", v.styles.Muted.Render("Saving..."))
	}

	// Footer
	footer := v.styles.Muted.Render("[j/k] Navigate  [Enter] Confirm  [1/2/3] Quick pick")
	sections = append(sections, "", footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSummary reports what is about to be saved.
func (v *View) renderSummary() string {
	if v.session == nil {
		return ""
	}
	sess, err := v.session.Session()
	if err != nil || sess == nil {
		return ""
	}
	return v.styles.Normal.Render(fmt.Sprintf(
		"%d result rows from %d indices", len(sess.Rows()), len(sess.Results)))
}

// renderChoices lists the commit modes.
func (v *View) renderChoices() string {
	lines := make([]string, 0, len(v.choices))
	for i, choice := range v.choices {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		label := fmt.Sprintf("%s%d. %s", indicator, i+1, choice.Description())
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(label))
		} else {
			lines = append(lines, v.styles.Normal.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

// Selected returns the index of the highlighted choice.
func (v *View) Selected() int {
	return v.selected
}

// Choice returns the highlighted commit choice.
func (v *View) Choice() domain.CommitChoice {
	return v.choices[v.selected]
}

// Outcome returns the commit outcome, empty until a commit succeeds.
func (v *View) Outcome() string {
	return v.outcome
}

// Committing reports whether a commit is in flight.
func (v *View) Committing() bool {
	return v.committing
}

// Reset clears the view for a fresh session.
func (v *View) Reset() {
	v.selected = 0
	v.committing = false
	v.outcome = ""
	v.err = nil
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
