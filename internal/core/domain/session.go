package domain

import "time"

// SessionState is the phase of a custom index session.
type SessionState string

const (
	// SessionEditing accepts exclusion toggles, resets and calculations.
	SessionEditing SessionState = "editing"
	// SessionCalculated holds a fresh result and waits for the decision
	// to build another index or finish.
	SessionCalculated SessionState = "calculated"
	// SessionFinished has handed its results over for persistence.
	// Terminal.
	SessionFinished SessionState = "finished"
)

// IsValid reports whether the state is one of the defined phases.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionEditing, SessionCalculated, SessionFinished:
		return true
	}
	return false
}

// String returns the state name.
func (s SessionState) String() string {
	return string(s)
}

// Session is one interactive custom index workflow: a current exclusion set
// plus the results committed so far. Sessions are explicit values owned by
// whoever started them; there is no shared instance.
type Session struct {
	// ID is the unique identifier assigned at start.
	ID string

	// State is the current phase.
	State SessionState

	// Exclusions is the working selector set for the next calculation.
	Exclusions *ExclusionSet

	// Results holds every calculated index in calculation order.
	Results []IndexResult

	// CreatedAt is when the session started.
	CreatedAt time.Time
}

// Rows flattens every result into output artifact records, preserving
// calculation order.
func (s *Session) Rows() []ResultRow {
	var rows []ResultRow
	for i := range s.Results {
		rows = append(rows, s.Results[i].Rows()...)
	}
	return rows
}
