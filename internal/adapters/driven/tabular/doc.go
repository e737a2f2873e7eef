// Package tabular loads the engine's input tables from CSV files.
//
// Two loaders implement driven ports: WeightsDir reads the per-tier weight
// tables from a directory, PriceMatrix reads the wide price-relative table.
// Both collect every schema problem they find into a single
// domain.SchemaError so a broken data drop is fixable in one pass.
//
// The package also provides Watcher, an fsnotify-based change notifier the
// CLI watch mode uses to recalculate when the source files change.
package tabular
