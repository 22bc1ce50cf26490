// Package validation provides reusable argument checks for table operations.
// Each validator reports its failure as an *errors.TableError so callers can
// test the kind with errors.Is.
package validation

import (
	"fmt"
	"math"

	"github.com/paveg/tabular/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider is implemented by types that can answer column lookups.
type ColumnProvider interface {
	HasColumn(name string) bool
	Len() int
}

// ColumnValidator validates that columns are carried by at least one row.
// An empty provider passes, since it has no rows to carry anything.
type ColumnValidator struct {
	p       ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(p ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{p: p, columns: columns, op: op}
}

// Validate checks that every column exists
func (v *ColumnValidator) Validate() error {
	if v.p.Len() == 0 {
		return nil
	}
	for _, column := range v.columns {
		if !v.p.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// KeyArityValidator validates a pair of positional key lists.
type KeyArityValidator struct {
	left, right []string
	op          string
}

// NewKeyArityValidator creates a validator for join key lists
func NewKeyArityValidator(op string, left, right []string) *KeyArityValidator {
	return &KeyArityValidator{left: left, right: right, op: op}
}

// Validate checks that both lists are non-empty and of equal length
func (v *KeyArityValidator) Validate() error {
	if len(v.left) == 0 || len(v.right) == 0 {
		return errors.NewInvalidInputError(v.op, "join key columns must not be empty")
	}
	if len(v.left) != len(v.right) {
		return errors.NewInvalidInputError(v.op,
			fmt.Sprintf("left keys %v and right keys %v differ in length", v.left, v.right))
	}
	return nil
}

// NonEmptyValidator validates that a list of names is not empty.
type NonEmptyValidator struct {
	names []string
	what  string
	op    string
}

// NewNonEmptyValidator creates a validator requiring at least one name
func NewNonEmptyValidator(op, what string, names []string) *NonEmptyValidator {
	return &NonEmptyValidator{names: names, what: what, op: op}
}

// Validate checks the list length
func (v *NonEmptyValidator) Validate() error {
	if len(v.names) == 0 {
		return errors.NewInvalidInputError(v.op, fmt.Sprintf("at least one %s is required", v.what))
	}
	return nil
}

// PositiveValidator validates a strictly positive integer parameter.
type PositiveValidator struct {
	param string
	n     int
	op    string
}

// NewPositiveValidator creates a validator for count-like parameters
func NewPositiveValidator(op, param string, n int) *PositiveValidator {
	return &PositiveValidator{param: param, n: n, op: op}
}

// Validate checks n > 0
func (v *PositiveValidator) Validate() error {
	if v.n <= 0 {
		return errors.NewInvalidArgumentError(v.op, v.param, v.n, "> 0")
	}
	return nil
}

// RangeValidator validates a float parameter against a closed interval.
type RangeValidator struct {
	param  string
	x      float64
	lo, hi float64
	op     string
}

// NewRangeValidator creates a validator for x in [lo, hi]
func NewRangeValidator(op, param string, x, lo, hi float64) *RangeValidator {
	return &RangeValidator{param: param, x: x, lo: lo, hi: hi, op: op}
}

// Validate checks the bounds; NaN is always out of range
func (v *RangeValidator) Validate() error {
	if math.IsNaN(v.x) || v.x < v.lo || v.x > v.hi {
		return errors.NewInvalidArgumentError(v.op, v.param, v.x, fmt.Sprintf("[%g, %g]", v.lo, v.hi))
	}
	return nil
}

// NotEmptyValidator validates that a provider has at least one row.
type NotEmptyValidator struct {
	p  ColumnProvider
	op string
}

// NewNotEmptyValidator creates a validator for operations that need a seed row
func NewNotEmptyValidator(p ColumnProvider, op string) *NotEmptyValidator {
	return &NotEmptyValidator{p: p, op: op}
}

// Validate checks Len > 0
func (v *NotEmptyValidator) Validate() error {
	if v.p.Len() == 0 {
		return errors.NewEmptyTableError(v.op)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{validators: validators}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs validators in order and returns the first failure.
func Validate(validators ...Validator) error {
	return NewCompoundValidator(validators...).Validate()
}

// ValidateColumns is a convenience function for column validation
func ValidateColumns(p ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(p, op, columns...).Validate()
}

// ValidateNotEmpty is a convenience function for empty table validation
func ValidateNotEmpty(p ColumnProvider, op string) error {
	return NewNotEmptyValidator(p, op).Validate()
}
