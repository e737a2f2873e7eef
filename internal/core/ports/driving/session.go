package driving

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// SessionService runs the interactive custom index workflow. One session is
// active at a time; Start replaces any previous one. State transitions
// return domain.ErrInvalidState when the current phase does not permit them.
type SessionService interface {
	// Start opens a fresh session in the editing phase.
	Start(ctx context.Context) (*domain.Session, error)

	// Session returns the active session, or ErrInvalidState before Start.
	Session() (*domain.Session, error)

	// Toggle flips one selector in the working exclusion set. Editing
	// phase only. Returns whether the selector is now excluded.
	Toggle(level domain.Level, selector string) (bool, error)

	// ResetExclusions clears the working exclusion set. Editing phase only.
	ResetExclusions() error

	// Preview resolves the working exclusions against the hierarchy and
	// reports their weight impact.
	Preview(ctx context.Context) (domain.Impact, error)

	// SelectionNodes lists a level's nodes for the toggle UI, with the
	// currently excluded ones flagged.
	SelectionNodes(ctx context.Context, level domain.Level) ([]SelectionNode, error)

	// Calculate builds the named index over the current selection and
	// moves the session to the calculated phase. On EmptySelectionError
	// the session stays in editing. An empty name gets a timestamped
	// default.
	Calculate(ctx context.Context, name string) (*domain.IndexResult, error)

	// ContinueOrFinish decides what happens after a calculation:
	// optionally clear the exclusions, then either return to editing for
	// another index or finish the session. Calculated phase only.
	ContinueOrFinish(clearExclusions, wantMore bool) error

	// Commit hands the finished session's rows to persistence and returns
	// a description of where they went. Finished phase only.
	Commit(ctx context.Context, choice domain.CommitChoice) (string, error)
}

// SelectionNode is one row of the exclusion toggle UI.
type SelectionNode struct {
	// Node is the hierarchy entry.
	Node domain.Node

	// Excluded reports whether the working set currently excludes it.
	Excluded bool
}
