// Package selector provides the exclusion toggle view for one hierarchy level.
package selector

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/components/list"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/components/status"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/keymap"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// View lists one hierarchy level's nodes and toggles their exclusion state.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.NodeList
	statusbar *status.Bar

	session driving.SessionService
	ctx     context.Context

	level domain.Level

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new selector view starting at the division tier.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateSelecting)

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewNodeList(s),
		statusbar: bar,
		session:   session,
		ctx:       context.Background(),
		level:     domain.LevelDivision,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current level's nodes and the exclusion impact.
func (v *View) Init() tea.Cmd {
	v.statusbar.SetState(status.StateWorking)
	return tea.Batch(v.loadNodes(), v.loadImpact())
}

// loadNodes fetches the current level's nodes with their exclusion flags.
func (v *View) loadNodes() tea.Cmd {
	level := v.level
	return func() tea.Msg {
		if v.session == nil {
			return messages.NodesLoaded{Level: level, Err: ErrNoSessionService}
		}
		nodes, err := v.session.SelectionNodes(v.ctx, level)
		return messages.NodesLoaded{Level: level, Nodes: nodes, Err: err}
	}
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

// Update handles messages for the selector view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.NodesLoaded:
		v.handleNodesLoaded(msg)
		return v, nil

	case messages.ImpactLoaded:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.statusbar.SetImpact(msg.Impact)
		v.statusbar.SetState(status.StateSelecting)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleNodesLoaded installs a freshly loaded level into the list.
func (v *View) handleNodesLoaded(msg messages.NodesLoaded) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	// A slow load for a level the user already tabbed away from is stale.
	if msg.Level != v.level {
		return
	}

	v.err = nil
	v.list.SetNodes(msg.Nodes)
	v.statusbar.SetState(status.StateSelecting)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHome}
		}
	}

	if msg.Type == tea.KeyTab {
		return v, v.nextLevel()
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	case tea.KeySpace, tea.KeyEnter:
		return v, v.toggleSelected()
	default:
		// Handle other keys
	}

	switch msg.String() {
	case "k":
		v.list.MoveUp()
		return v, nil
	case "j":
		v.list.MoveDown()
		return v, nil
	case "r":
		return v, v.resetExclusions()
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// toggleSelected flips the exclusion state of the highlighted node.
func (v *View) toggleSelected() tea.Cmd {
	node := v.list.SelectedNode()
	if node == nil {
		return nil
	}
	if v.session == nil {
		v.err = ErrNoSessionService
		return nil
	}

	excluded, err := v.session.Toggle(v.level, node.Node.Code)
	if err != nil {
		v.err = err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return nil
	}

	v.err = nil
	v.list.MarkSelected(excluded)
	return v.loadImpact()
}

// nextLevel cycles to the next selector tier and reloads the list.
func (v *View) nextLevel() tea.Cmd {
	for i, lvl := range domain.SelectorLevels {
		if lvl == v.level {
			v.level = domain.SelectorLevels[(i+1)%len(domain.SelectorLevels)]
			break
		}
	}
	v.list.ResetCursor()
	v.statusbar.SetState(status.StateWorking)
	return v.loadNodes()
}

// resetExclusions clears the working set and reloads the level.
func (v *View) resetExclusions() tea.Cmd {
	if v.session == nil {
		v.err = ErrNoSessionService
		return nil
	}
	if err := v.session.ResetExclusions(); err != nil {
		v.err = err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return nil
	}
	v.err = nil
	return tea.Batch(v.loadNodes(), v.loadImpact())
}

// View renders the selector view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	// Header
	header := v.styles.Title.Render("Toggle " + levelTitle(v.level))
	sections = append(sections, header, "")

	// Level hint
	hint := v.styles.Muted.Render("Level: " + v.level.String() + " (tab to cycle, space to toggle)")
	sections = append(sections, hint, "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Node list
	sections = append(sections, v.list.View())

	// Status bar at bottom
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// levelTitle returns the plural display name for a level.
func levelTitle(l domain.Level) string {
	switch l {
	case domain.LevelDivision:
		return "Divisions"
	case domain.LevelGroup:
		return "Groups"
	case domain.LevelClass:
		return "Classes"
	case domain.LevelSubclass:
		return "Subclasses"
	case domain.LevelItem:
		return "Items"
	default:
		return string(l)
	}
}

// SetLevel switches the view to a different hierarchy tier.
func (v *View) SetLevel(level domain.Level) {
	v.level = level
	v.list.ResetCursor()
}

// Level returns the tier currently shown.
func (v *View) Level() domain.Level {
	return v.level
}

// Nodes returns the listed nodes.
func (v *View) Nodes() []driving.SelectionNode {
	return v.list.Nodes()
}

// SelectedIndex returns the index of the highlighted node.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Reserve space for header, hint, and status bar
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
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
