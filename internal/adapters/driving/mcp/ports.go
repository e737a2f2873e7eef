package mcp

import (
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index calculates custom indices and previews exclusions.
	Index driving.IndexService

	// Core derives ex-items indices from published aggregates.
	Core driving.CoreService

	// Hierarchy exposes the weight hierarchy for resources.
	Hierarchy driving.HierarchyService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// Core and Hierarchy back optional tools and resources
	return nil
}
