// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The calculation services are single-threaded: each instance is owned by
// one caller at a time and nothing here locks.
package services
