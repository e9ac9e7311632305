// Package cdktferrors implements the error taxonomy of the synthesis engine.
package cdktferrors

import (
	"fmt"

	"go.uber.org/multierr"
)

// Kind identifies the category of a synthesis error, per the error
// taxonomy: DuplicateId, ValidationFailed, CircularDependency,
// UnresolvedToken, UnsupportedCrossStack, IOError.
type Kind string

const (
	DuplicateId           Kind = "DUPLICATE_ID"
	ValidationFailed      Kind = "VALIDATION_FAILED"
	CircularDependency    Kind = "CIRCULAR_DEPENDENCY"
	UnresolvedToken       Kind = "UNRESOLVED_TOKEN"
	UnsupportedCrossStack Kind = "UNSUPPORTED_CROSS_STACK"
	IOError               Kind = "IO_ERROR"
)

// Error is a domain error carrying a machine-readable Kind plus context,
// so a driver can set a process exit code (1 general, 2 validation) from
// Kind alone without string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether the error carries the given kind.
func (e *Error) Is(k Kind) bool { return e.Kind == k }

// WithContext attaches diagnostic context (e.g. the offending construct
// path) and returns the receiver for chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new Error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new formatted Error.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps a cause with a Kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind, true
	}
	return "", false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ExitCode maps a Kind to the driver-visible exit code of spec §6:
// 1 = general failure, 2 = validation failure, 0 = no error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if k, ok := KindOf(err); ok && k == ValidationFailed {
		return 2
	}
	return 1
}

// ValidationErrors accumulates validation-phase failures so that, per
// spec §7, "validations are accumulated before abort" and the caller sees
// every problem at once instead of failing on the first one.
type ValidationErrors struct {
	err error
}

// Add records a validation failure. A nil err is a no-op.
func (v *ValidationErrors) Add(err error) {
	if err == nil {
		return
	}
	v.err = multierr.Append(v.err, err)
}

// Addf records a formatted validation failure against a construct path.
func (v *ValidationErrors) Addf(path string, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	v.Add(Newf(ValidationFailed, "%s: %s", path, msg).WithContext("path", path))
}

// HasErrors reports whether any validation failure was recorded.
func (v *ValidationErrors) HasErrors() bool { return v.err != nil }

// Errors returns the individual validation failures collected so far, in
// the order they were added.
func (v *ValidationErrors) Errors() []error {
	return multierr.Errors(v.err)
}

// AsError returns a single *Error of kind ValidationFailed summarizing all
// collected failures, or nil if none were recorded.
func (v *ValidationErrors) AsError() error {
	if v.err == nil {
		return nil
	}
	errs := multierr.Errors(v.err)
	return Wrap(ValidationFailed, fmt.Sprintf("%d validation error(s)", len(errs)), v.err)
}
