// Package diag defines WCC's error codes and the diagnostics accumulator
// that every resolution, extraction, emission, and patching operation
// returns. Stages merge diagnostics instead of replacing them; nothing is
// silently dropped.
package diag

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// SourceMissing indicates a discovered source file could not be read
	SourceMissing ErrorCode = "SOURCE_MISSING"
	// ParseFailed indicates a source file could not be parsed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// NoComponent indicates parsing produced no component model
	NoComponent ErrorCode = "NO_COMPONENT"
	// BaseUnresolved indicates a base class could not be resolved (strict mode)
	BaseUnresolved ErrorCode = "BASE_UNRESOLVED"
	// MarkersMissing indicates an output file lacks generated-section markers
	MarkersMissing ErrorCode = "MARKERS_MISSING"
	// TargetUnknown indicates an emit target identifier is not registered
	TargetUnknown ErrorCode = "TARGET_UNKNOWN"
	// TargetDuplicate indicates an emit target was registered twice
	TargetDuplicate ErrorCode = "TARGET_DUPLICATE"
	// WriteFailed indicates an output file could not be written
	WriteFailed ErrorCode = "WRITE_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a code-carrying error.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error     // underlying error, not exported to JSON
}

// NewError creates a new Error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Errorf creates a new Error with a formatted message and no cause.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Diagnostics accumulates warnings and errors across pipeline stages.
type Diagnostics struct {
	Warnings []string `json:"warnings,omitempty"`
	Errors   []*Error `json:"errors,omitempty"`
}

// Warnf appends a formatted warning.
func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// AddError appends an error.
func (d *Diagnostics) AddError(err *Error) {
	d.Errors = append(d.Errors, err)
}

// Merge appends all warnings and errors from other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Errors = append(d.Errors, other.Errors...)
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// HasWarnings reports whether any warning was recorded.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// PromoteWarnings converts every recorded warning into an error with the
// given code. Used by strict mode for unresolved base classes.
func (d *Diagnostics) PromoteWarnings(code ErrorCode) {
	for _, w := range d.Warnings {
		d.Errors = append(d.Errors, &Error{Code: code, Message: w})
	}
	d.Warnings = nil
}
