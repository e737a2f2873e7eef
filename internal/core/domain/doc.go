// Package domain defines the core business entities for cpix.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Hierarchy: The immutable division/group/class/item weight tree
//   - PriceSeries: Per-item price relatives keyed by group and period
//   - ExclusionSet: Toggleable selectors naming what to leave out
//   - IndexResult: A calculated index with its derived change series
//   - Session: The multi-round custom index workflow state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
