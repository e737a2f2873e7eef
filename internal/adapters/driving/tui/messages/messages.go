// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewHome is the session overview and action menu.
	ViewHome ViewType = iota
	// ViewSelector is the exclusion toggle view for one hierarchy level.
	ViewSelector
	// ViewName is the index naming and calculation view.
	ViewName
	// ViewResult shows a calculated index and the continue/finish decision.
	ViewResult
	// ViewSave is the commit choice view for a finished session.
	ViewSave
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewSelector:
		return "selector"
	case ViewName:
		return "name"
	case ViewResult:
		return "result"
	case ViewSave:
		return "save"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LevelChosen is sent when the user picks a hierarchy level to edit.
// The app routes to the selector view for that level.
type LevelChosen struct {
	Level domain.Level
}

// SessionStarted carries the freshly started session back to the model.
type SessionStarted struct {
	Session *domain.Session
	Err     error
}

// HierarchyLoaded carries the weight hierarchy for display.
type HierarchyLoaded struct {
	Hierarchy *domain.Hierarchy
	Err       error
}

// NodesLoaded carries one level's selection nodes for the toggle view.
type NodesLoaded struct {
	Level domain.Level
	Nodes []driving.SelectionNode
	Err   error
}

// ImpactLoaded carries the weight impact of the working exclusion set.
type ImpactLoaded struct {
	Impact domain.Impact
	Err    error
}

// CalculationDone carries a calculated index, or the failure that kept the
// session in the editing phase.
type CalculationDone struct {
	Result *domain.IndexResult
	Err    error
}

// CommitDone carries the outcome description of a session commit.
type CommitDone struct {
	Outcome string
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
