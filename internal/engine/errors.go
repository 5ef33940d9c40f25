package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a broken invariant detected during reduction.
//
// Runtime errors include:
//   - Wrong shape: a rule expected a number and found something else
//   - Undefined alias: a global reference has no definition
//   - Quota exceeded: reduction ran past the configured step limit
//   - Halted: the engine already failed once and refuses more work
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Node is a shallow rendering of the offending node, if any.
	Node string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeWrongShape indicates an operand reduced to an unexpected tag.
	ErrCodeWrongShape RuntimeErrorCode = "WRONG_SHAPE"

	// ErrCodeSpineUnderflow indicates a rule read past the top of the spine.
	ErrCodeSpineUnderflow RuntimeErrorCode = "SPINE_UNDERFLOW"

	// ErrCodeSpineLeak indicates a reduction returned with frames still pushed.
	ErrCodeSpineLeak RuntimeErrorCode = "SPINE_LEAK"

	// ErrCodeUndefinedAlias indicates an alias id with no definition.
	ErrCodeUndefinedAlias RuntimeErrorCode = "UNDEFINED_ALIAS"

	// ErrCodeDivisionByZero indicates "div" with a zero divisor.
	ErrCodeDivisionByZero RuntimeErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeNegativeExponent indicates "pwr2" of a negative number.
	ErrCodeNegativeExponent RuntimeErrorCode = "NEGATIVE_EXPONENT"

	// ErrCodeMalformedEncoding indicates "dem" of an undecodable bit string.
	ErrCodeMalformedEncoding RuntimeErrorCode = "MALFORMED_ENCODING"

	// ErrCodeUnimplemented indicates a primitive with no rewrite rule ("send").
	ErrCodeUnimplemented RuntimeErrorCode = "UNIMPLEMENTED"

	// ErrCodeQuotaExceeded indicates the step quota was exhausted.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeHalted indicates the engine failed earlier and refuses more work.
	ErrCodeHalted RuntimeErrorCode = "HALTED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of the RuntimeError wrapped by err, or "" if err
// is not a runtime error.
func CodeOf(err error) RuntimeErrorCode {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsQuotaError returns true if the error is a quota exceeded error.
func IsQuotaError(err error) bool {
	return CodeOf(err) == ErrCodeQuotaExceeded
}

// IsHalted returns true if the engine refused work after an earlier failure.
func IsHalted(err error) bool {
	return CodeOf(err) == ErrCodeHalted
}

// IsWrongShape returns true if an operand had an unexpected tag.
func IsWrongShape(err error) bool {
	return CodeOf(err) == ErrCodeWrongShape
}

func fail(code RuntimeErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) at(n fmt.Stringer) *RuntimeError {
	e.Node = n.String()
	return e
}

// NewHaltedError creates the error returned by a halted engine. cause is
// the failure that halted it.
func NewHaltedError(cause *RuntimeError) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeHalted,
		Message: "engine halted by an earlier failure",
		Details: map[string]string{
			"cause": string(cause.Code),
		},
	}
}
