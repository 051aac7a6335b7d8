/*
errors.go - Centralized error types for the ledger

ERROR CATEGORIES:
  1. Validation errors  - Missing/malformed input. Rejected before any read.
  2. Duplicate entries  - A work entry already exists for labour+date.
  3. Not found          - Labour or event does not exist.
  4. Persistence errors - The store failed while applying a mutation.

Validation, duplicate and not-found errors never leave side effects.
Persistence errors are raised inside a store transaction, so the whole
mutation (events + mirror) is rolled back. If a store cannot roll back,
the batch recalculation job (recalc.go) is the repair path.

USAGE:
  ev, err := coord.ApplyEntry(ctx, input)
  var dup *ledger.DuplicateEntryError
  switch {
  case errors.As(err, &dup):
      // already have a work entry on dup.Date
  case errors.Is(err, ledger.ErrValidation):
      // bad input
  }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEntry is returned when a work entry already exists for the
	// same labour and date.
	ErrDuplicateEntry = errors.New("duplicate work entry")

	// ErrNotFound is the parent of all not-found errors.
	ErrNotFound = errors.New("not found")

	ErrLabourNotFound = fmt.Errorf("labour %w", ErrNotFound)
	ErrEventNotFound  = fmt.Errorf("event %w", ErrNotFound)

	// ErrPersistence is returned when the store fails mid-mutation.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DuplicateEntryError identifies the conflicting work entry.
type DuplicateEntryError struct {
	LabourID   LabourID
	Date       Date
	ExistingID EventID
}

func (e *DuplicateEntryError) Error() string {
	if e.ExistingID == "" {
		return fmt.Sprintf("work entry already exists for labour %s on %s", e.LabourID, e.Date)
	}
	return fmt.Sprintf("work entry already exists for labour %s on %s (event: %s)",
		e.LabourID, e.Date, e.ExistingID)
}

func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }

// PersistenceError records at which mutation stage the store failed.
type PersistenceError struct {
	Stage Stage
	Op    string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s (%s): %v", e.Stage, e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the underlying store error.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicateEntry)
}

// IsNotFound returns true if the error indicates a missing labour or event.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
