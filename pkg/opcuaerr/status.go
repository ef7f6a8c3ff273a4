package opcuaerr

import (
	"errors"
	"fmt"
)

// StatusCode is one of the fixed OPC UA result codes this server returns.
type StatusCode string

const (
	Good StatusCode = "Good"

	// Validation failures: caller error, no state change.
	BadNodeIdExists               StatusCode = "BadNodeIdExists"
	BadNodeIdInvalid              StatusCode = "BadNodeIdInvalid"
	BadParentNodeIdInvalid        StatusCode = "BadParentNodeIdInvalid"
	BadReferenceTypeIdInvalid     StatusCode = "BadReferenceTypeIdInvalid"
	BadTypeDefinitionInvalid      StatusCode = "BadTypeDefinitionInvalid"
	BadBrowseNameDuplicated       StatusCode = "BadBrowseNameDuplicated"
	BadNotFound                   StatusCode = "BadNotFound"
	BadDuplicateReferenceNotAllowed StatusCode = "BadDuplicateReferenceNotAllowed"

	// Resource failure: transient.
	BadOutOfMemory StatusCode = "BadOutOfMemory"

	// Invariant violation: a bug, reported and logged rather than a
	// caller mistake.
	BadInternalError StatusCode = "BadInternalError"
)

// Error pairs a StatusCode with the Go error that caused it, if any.
type Error struct {
	Code  StatusCode
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no wrapped cause.
func New(code StatusCode) *Error {
	return &Error{Code: code}
}

// Wrap builds an *Error carrying code and wrapping cause, the same
// fmt.Errorf("...: %w", err) idiom the rest of the stack uses, just typed.
func Wrap(code StatusCode, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// CodeOf extracts the StatusCode from err if it is, or wraps, an *Error;
// otherwise it returns BadInternalError, since an un-coded error reaching
// a service boundary is itself an invariant violation.
func CodeOf(err error) StatusCode {
	if err == nil {
		return Good
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return BadInternalError
}
