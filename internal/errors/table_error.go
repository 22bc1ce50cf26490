// Package errors provides standardized error types for table operations.
// Every failure the engine reports is a *TableError carrying the operation
// name, an optional column, and a Kind that callers can test with errors.Is
// against the kind sentinels below.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a TableError.
type Kind int

const (
	// KindInternal is an unexpected failure inside the engine.
	KindInternal Kind = iota
	// KindPrecondition means the input does not satisfy an operation's
	// precondition (an empty table where a seed row is required, a sample
	// larger than the table).
	KindPrecondition
	// KindInvalidArgument means a parameter is outside its allowed set.
	KindInvalidArgument
	// KindConversion means a value could not be converted to the requested kind.
	KindConversion
	// KindColumnNotFound means a required column is absent from every row.
	KindColumnNotFound
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindInvalidArgument:
		return "invalid argument"
	case KindConversion:
		return "conversion"
	case KindColumnNotFound:
		return "column not found"
	default:
		return "internal"
	}
}

// TableError represents standardized errors across all table operations
type TableError struct {
	Kind    Kind   // Failure family
	Op      string // Operation name (e.g., "Merge", "Pivot", "GroupBy")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *TableError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *TableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a kind sentinel matching e's kind, or a
// TableError with the same kind, operation, column and message.
func (e *TableError) Is(target error) bool {
	t, ok := target.(*TableError)
	if !ok {
		return false
	}
	if t.sentinel() {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op && e.Column == t.Column && e.Message == t.Message
}

func (e *TableError) sentinel() bool {
	return e.Op == "" && e.Column == "" && e.Message == "" && e.Cause == nil
}

// Kind sentinels for errors.Is checks.
var (
	ErrPrecondition    = &TableError{Kind: KindPrecondition}
	ErrInvalidArgument = &TableError{Kind: KindInvalidArgument}
	ErrConversion      = &TableError{Kind: KindConversion}
	ErrColumnNotFound  = &TableError{Kind: KindColumnNotFound}
	ErrInternal        = &TableError{Kind: KindInternal}
)

// NewPreconditionError creates an error for an unmet operation precondition
func NewPreconditionError(op, message string) *TableError {
	return &TableError{
		Kind:    KindPrecondition,
		Op:      op,
		Message: message,
	}
}

// NewEmptyTableError creates the precondition error raised when an operation
// needs a seed row and the table has none.
func NewEmptyTableError(op string) *TableError {
	return NewPreconditionError(op, "operation requires a non-empty table")
}

// NewInvalidArgumentError creates an error naming an invalid value and the
// allowed set.
func NewInvalidArgumentError(op, param string, value any, allowed ...string) *TableError {
	msg := fmt.Sprintf("invalid %s: %v", param, value)
	if len(allowed) > 0 {
		msg += fmt.Sprintf(" (allowed: %s)", strings.Join(allowed, ", "))
	}
	return &TableError{
		Kind:    KindInvalidArgument,
		Op:      op,
		Message: msg,
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *TableError {
	return &TableError{
		Kind:    KindInvalidArgument,
		Op:      op,
		Message: message,
	}
}

// NewConversionError creates an error for a value that cannot be converted.
func NewConversionError(op, column string, value any, from, to string, cause error) *TableError {
	return &TableError{
		Kind:    KindConversion,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("cannot convert %v from %s to %s", value, from, to),
		Cause:   cause,
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *TableError {
	return &TableError{
		Kind:    KindColumnNotFound,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *TableError {
	return &TableError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}
