package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates a session operation was attempted in a
	// state that does not permit it.
	ErrInvalidState = errors.New("operation not permitted in current session state")

	// ErrNoPrices indicates the price source contains no observations.
	ErrNoPrices = errors.New("price source contains no observations")

	// ErrNoHierarchy indicates no hierarchy has been built yet.
	ErrNoHierarchy = errors.New("hierarchy not loaded")

	// ErrDatasetUnavailable indicates the results dataset is not configured.
	// Committed indices cannot be persisted without it.
	ErrDatasetUnavailable = errors.New("results dataset unavailable")
)

// SchemaError reports weight or price tables that do not match the expected
// layout. All missing tables and columns are collected before the error is
// returned so a malformed input directory fails once, with the full list.
type SchemaError struct {
	// Problems lists every schema violation found, one entry per missing
	// table or column, in table order.
	Problems []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// IntegrityError reports weight relationships that do not hold across the
// hierarchy: a child heavier than its parent, a parent that is not the sum
// of its children, divisions that do not total 100, or orphaned codes.
// Construction fails once with every violation listed.
type IntegrityError struct {
	// Problems lists every integrity violation found.
	Problems []string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hierarchy integrity check failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// ValidationError reports invalid inputs to the algebraic core-index
// calculation. Every problem is accumulated before the calculation fails so
// the caller can fix all of them in one pass.
type ValidationError struct {
	// Problems lists every validation failure found.
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("core index validation failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// EmptySelectionError indicates the current exclusions removed every item,
// leaving nothing to aggregate. It is recoverable: the session stays in
// editing state so the user can adjust the exclusions and retry.
type EmptySelectionError struct {
	// Excluded is how many items the exclusions removed.
	Excluded int
}

// Error implements the error interface.
func (e *EmptySelectionError) Error() string {
	return "all items excluded - cannot calculate index"
}
