// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - WeightSource: Loads the per-tier weight tables
//   - PriceSource: Loads price relatives keyed by group and period
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DatasetStore: Results persistence. Without it, finished sessions can
//     only discard their results.
//   - SourceWatcher: Change notification for watch mode. Without it,
//     recalculation is manual.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
