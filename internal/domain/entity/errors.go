package entity

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors surfaced to callers of requisition creation and ApplyAction
var (
	// ErrMissingConversion is returned when a non-USD requisition is
	// created without a supplied USD equivalent
	ErrMissingConversion = errors.New("usd equivalent required for non-USD currency")

	// ErrBudgetExhausted is returned when a submission is attempted
	// while the department budget is at or below the low-water mark
	ErrBudgetExhausted = errors.New("department budget exhausted")

	// ErrUnauthorizedTransition is returned when the acting role does not
	// match the role the router currently authorizes
	ErrUnauthorizedTransition = errors.New("actor not authorized for this transition")

	// ErrConflict is returned to the losing writer of a concurrent transition
	ErrConflict = errors.New("requisition was updated concurrently")

	// ErrInvalidState is returned when an action is attempted on a
	// requisition in a terminal or otherwise incompatible state
	ErrInvalidState = errors.New("action not valid in current state")

	// ErrNotFound is returned when the requisition or budget does not exist
	ErrNotFound = errors.New("not found")
)

// ValidationError reports invalid caller input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BudgetExhaustedError carries the remaining figure so the submitter
// can be told how much headroom is left
type BudgetExhaustedError struct {
	Department string
	Remaining  decimal.Decimal
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("department %s budget exhausted: remaining %s", e.Department, e.Remaining.StringFixed(2))
}

// Unwrap lets errors.Is match ErrBudgetExhausted
func (e *BudgetExhaustedError) Unwrap() error {
	return ErrBudgetExhausted
}
