// Package tui provides the interactive custom index wizard for cpix.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session runs the interactive custom index workflow.
	Session driving.SessionService

	// Hierarchy exposes the weight hierarchy for display.
	Hierarchy driving.HierarchyService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SessionService,
	hierarchy driving.HierarchyService,
) *Ports {
	return &Ports{
		Session:   session,
		Hierarchy: hierarchy,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Hierarchy == nil {
		return ErrMissingHierarchyService
	}
	return nil
}
