package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/views/home"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/views/name"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/views/result"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/views/save"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/views/selector"
	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// App is the custom index wizard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// homeView is the session overview and action menu.
	homeView *home.View

	// selectorView toggles exclusions for one hierarchy level.
	selectorView *selector.View

	// nameView names the next index and runs the calculation.
	nameView *name.View

	// resultView shows a calculated index and takes the continue decision.
	resultView *result.View

	// saveView takes the commit decision for a finished session.
	saveView *save.View

	// session tracks the active session for accessor compatibility.
	session *domain.Session

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new wizard application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	homeView := home.NewView(s, ports.Session)
	selectorView := selector.NewView(s, nil, ports.Session)
	nameView := name.NewView(s, nil, ports.Session)
	resultView := result.NewView(s, nil, ports.Session)
	saveView := save.NewView(s, nil, ports.Session)

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		homeView:     homeView,
		selectorView: selectorView,
		nameView:     nameView,
		resultView:   resultView,
		saveView:     saveView,
		currentView:  messages.ViewHome, // Start at the overview
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.homeView.WithContext(ctx)
	a.selectorView.WithContext(ctx)
	a.nameView.WithContext(ctx)
	a.saveView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It opens the session and loads the hierarchy when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("cpix - Custom Index Wizard"),
		a.startSession(),
		a.loadHierarchy(),
	)
}

// startSession opens a fresh editing session.
func (a *App) startSession() tea.Cmd {
	return func() tea.Msg {
		session, err := a.ports.Session.Start(a.ctx)
		return messages.SessionStarted{Session: session, Err: err}
	}
}

// loadHierarchy fetches the weight hierarchy for the overview.
func (a *App) loadHierarchy() tea.Cmd {
	return func() tea.Msg {
		hierarchy, err := a.ports.Hierarchy.Hierarchy(a.ctx)
		return messages.HierarchyLoaded{Hierarchy: hierarchy, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.homeView.SetDimensions(msg.Width, msg.Height)
		a.selectorView.SetDimensions(msg.Width, msg.Height)
		a.nameView.SetDimensions(msg.Width, msg.Height)
		a.resultView.SetDimensions(msg.Width, msg.Height)
		a.saveView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewHome:
			a.homeView, cmd = a.homeView.Update(msg)
			return a, cmd

		case messages.ViewSelector:
			a.selectorView, cmd = a.selectorView.Update(msg)
			return a, cmd

		case messages.ViewName:
			a.nameView, cmd = a.nameView.Update(msg)
			return a, cmd

		case messages.ViewResult:
			a.resultView, cmd = a.resultView.Update(msg)
			return a, cmd

		case messages.ViewSave:
			a.saveView, cmd = a.saveView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes back to the overview
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewHome
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.SessionStarted:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.session = msg.Session
		a.homeView.SetSession(msg.Session)
		// The impact line needs an active session, so it loads now.
		return a, a.homeView.Init()

	case messages.HierarchyLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.homeView.SetHierarchy(msg.Hierarchy)
		return a, nil

	case messages.LevelChosen:
		a.selectorView.SetLevel(msg.Level)
		a.currentView = messages.ViewSelector
		return a, a.selectorView.Init()

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewHome:
			return a, a.homeView.Init()
		case messages.ViewSelector:
			return a, a.selectorView.Init()
		case messages.ViewName:
			a.nameView.Reset()
			return a, a.nameView.Init()
		case messages.ViewSave:
			a.saveView.Reset()
			return a, a.saveView.Init()
		case messages.ViewResult, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.CalculationDone:
		if msg.Err != nil {
			// The session stays in editing; the naming view shows why.
			a.err = msg.Err
			a.nameView, cmd = a.nameView.Update(msg)
			return a, cmd
		}
		a.err = nil
		a.refreshSession()
		a.resultView.SetResult(msg.Result)
		a.nameView, _ = a.nameView.Update(msg)
		a.currentView = messages.ViewResult
		return a, nil

	case messages.NodesLoaded:
		a.selectorView, cmd = a.selectorView.Update(msg)
		return a, cmd

	case messages.ImpactLoaded:
		// Both the overview and the selector display the impact summary.
		a.homeView, _ = a.homeView.Update(msg)
		a.selectorView, cmd = a.selectorView.Update(msg)
		return a, cmd

	case messages.CommitDone:
		a.refreshSession()
		a.saveView, cmd = a.saveView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewSelector:
			a.selectorView, cmd = a.selectorView.Update(msg)
		case messages.ViewHome, messages.ViewName, messages.ViewResult,
			messages.ViewSave, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewHome:
		a.homeView, cmd = a.homeView.Update(msg)
	case messages.ViewSelector:
		a.selectorView, cmd = a.selectorView.Update(msg)
	case messages.ViewName:
		a.nameView, cmd = a.nameView.Update(msg)
	case messages.ViewResult:
		a.resultView, cmd = a.resultView.Update(msg)
	case messages.ViewSave:
		a.saveView, cmd = a.saveView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// refreshSession re-reads the session so status displays track its phase.
func (a *App) refreshSession() {
	session, err := a.ports.Session.Session()
	if err != nil {
		return
	}
	a.session = session
	a.homeView.SetSession(session)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHome:
		return a.homeView.View()
	case messages.ViewSelector:
		return a.selectorView.View()
	case messages.ViewName:
		return a.nameView.View()
	case messages.ViewResult:
		return a.resultView.View()
	case messages.ViewSave:
		return a.saveView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.homeView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to overview
  ctrl+c      Quit

Overview:
  j/k, ↑/↓    Navigate options
  enter       Select option
  r           Reset exclusions
  q           Quit

Exclusion toggles:
  space/enter Toggle the highlighted node
  tab         Cycle hierarchy level
  j/k, ↑/↓    Navigate nodes
  r           Reset exclusions
  esc         Back to overview

Result:
  n           Another index, keep exclusions
  c           Another index, cleared
  f           Finish and save

Save:
  j/k, ↑/↓    Pick a commit mode
  enter       Confirm
  1/2/3       Quick pick

[esc] back to overview`
}

// Run starts the wizard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Session returns the active session.
func (a *App) Session() *domain.Session {
	return a.session
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.homeView.SetDimensions(width, height)
	a.selectorView.SetDimensions(width, height)
	a.nameView.SetDimensions(width, height)
	a.resultView.SetDimensions(width, height)
	a.saveView.SetDimensions(width, height)
}
