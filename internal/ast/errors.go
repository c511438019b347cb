package ast

import (
	"errors"
	"fmt"
)

// Error is a structural problem in a finished query, detected by Validate
// or by a renderer. Errors are programming errors in the calling code and
// are never retried.
//
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Operator names the offending operator or join kind, when there is one.
	Operator string

	// Path locates the node, e.g. "where.and[1]" or "joins[0]".
	Path string
}

// ErrorCode categorizes structural errors.
type ErrorCode string

const (
	// ErrCodeMissingJoinCondition indicates a non-cross join without ON.
	ErrCodeMissingJoinCondition ErrorCode = "MISSING_JOIN_CONDITION"

	// ErrCodeArityMismatch indicates an operator with the wrong number or
	// shape of operands.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnsupportedOperator indicates a construct the target dialect
	// cannot express.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Operator != "":
		return fmt.Sprintf("%s: %s (at=%s, op=%s)", e.Code, e.Message, e.Path, e.Operator)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (at=%s)", e.Code, e.Message, e.Path)
	case e.Operator != "":
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Operator)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCodeOf returns the code of the first *Error in err's tree, or "".
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok && e.Code == code {
		return true
	}
	// errors.As stops at the first *Error; Validate joins several, so walk
	// every branch.
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return hasCode(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if hasCode(inner, code) {
				return true
			}
		}
	}
	return false
}

// IsMissingJoinCondition returns true if err contains a missing join
// condition error.
func IsMissingJoinCondition(err error) bool {
	return hasCode(err, ErrCodeMissingJoinCondition)
}

// IsArityMismatch returns true if err contains an arity mismatch error.
func IsArityMismatch(err error) bool {
	return hasCode(err, ErrCodeArityMismatch)
}

// IsUnsupportedOperator returns true if err contains an unsupported
// operator error.
func IsUnsupportedOperator(err error) bool {
	return hasCode(err, ErrCodeUnsupportedOperator)
}

// NewUnsupportedOperatorError creates an Error for a construct a dialect
// cannot express.
func NewUnsupportedOperatorError(dialect, operator, path string) *Error {
	return &Error{
		Code:     ErrCodeUnsupportedOperator,
		Message:  fmt.Sprintf("dialect %s cannot express this operator", dialect),
		Operator: operator,
		Path:     path,
	}
}

func newMissingJoinConditionError(kind JoinKind, table, path string) *Error {
	return &Error{
		Code:     ErrCodeMissingJoinCondition,
		Message:  fmt.Sprintf("join on %s has no ON condition", table),
		Operator: kind.String(),
		Path:     path,
	}
}

func newArityError(op Operator, message, path string) *Error {
	return &Error{
		Code:     ErrCodeArityMismatch,
		Message:  message,
		Operator: op.String(),
		Path:     path,
	}
}
