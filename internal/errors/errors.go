package errors

import (
	stderrors "errors"
	"fmt"
)

// Error represents a planning failure carrying a GQLSTATE-style status code.
type Error struct {
	Code     string // GQLSTATE code
	Message  string // Primary error message
	Detail   string // Optional detailed error message
	Hint     string // Optional hint message
	Variable string // Pattern variable if applicable
	Label    string // Label name if applicable
	Property string // Property key name if applicable
	Routine  string // Planning stage that raised the error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Routine != "" {
		msg = e.Routine + ": " + msg
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (GQLSTATE %s) DETAIL: %s", msg, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (GQLSTATE %s)", msg, e.Code)
}

// New creates a new Error with the given code and message
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail adds detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithHintf adds a formatted hint to the error
func (e *Error) WithHintf(format string, args ...interface{}) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// WithVariable sets the pattern variable
func (e *Error) WithVariable(variable string) *Error {
	e.Variable = variable
	return e
}

// WithLabel sets the label name
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithProperty sets the property key name
func (e *Error) WithProperty(property string) *Error {
	e.Property = property
	return e
}

// WithRoutine sets the planning stage that produced the error
func (e *Error) WithRoutine(routine string) *Error {
	e.Routine = routine
	return e
}

// InternalErrorf creates an internal error
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(InternalError, format, args...)
}

// FeatureNotSupportedError creates a feature not supported error
func FeatureNotSupportedError(feature string) *Error {
	return Newf(FeatureNotSupported, "%s is not supported", feature)
}

// IsError checks if an error is a planning Error with a specific code
func IsError(err error, code string) bool {
	if err == nil {
		return false
	}
	var pErr *Error
	return stderrors.As(err, &pErr) && pErr.Code == code
}

// GetError attempts to extract a planning Error from any error
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	var pErr *Error
	if stderrors.As(err, &pErr) {
		return pErr
	}
	// Wrap generic errors as internal errors
	return InternalErrorf("%v", err)
}
