// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Input errors.
	ErrDataFormat    = errors.New("invalid data format")
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrUnknownColumn = errors.New("unknown column")

	// Numerical errors.
	ErrDegenerateColumn = errors.New("degenerate column")
	ErrNoConvergence    = errors.New("did not converge")
	ErrDecomposition    = errors.New("decomposition failed")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DataFormatError reports a malformed input file: missing columns, an absent
// identifier column, or an unparseable header.
type DataFormatError struct {
	Path    string
	Reason  string
	Missing []string
}

func (e *DataFormatError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s (missing columns: %s)", e.Path, e.Reason, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *DataFormatError) Unwrap() error {
	return ErrDataFormat
}

// DegenerateColumnError reports columns with zero variance that cannot be
// standardized. The offending columns are excluded from the output matrix;
// the caller decides whether to continue with the remaining columns.
type DegenerateColumnError struct {
	Columns []string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("zero variance in columns: %s", strings.Join(e.Columns, ", "))
}

func (e *DegenerateColumnError) Unwrap() error {
	return ErrDegenerateColumn
}

// ConvergenceError reports an iterative method that hit its iteration bound
// before stabilizing. The partial result is still returned alongside it.
type ConvergenceError struct {
	Method     string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations", e.Method, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
