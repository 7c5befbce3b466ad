package dyn

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes container errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a missing representation on a non-null-safe
	// container.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConversion indicates the coercion engine could not produce the
	// requested target tag.
	ErrCodeConversion ErrorCode = "CONVERSION_FAILED"

	// ErrCodeUnsupported indicates a capability predicate failed for an
	// operation's operand.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeArithmetic indicates division by an operand whose numeric value
	// is exactly zero.
	ErrCodeArithmetic ErrorCode = "ARITHMETIC_ERROR"

	// ErrCodeOutOfRange indicates an invalid index range.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// ErrCodeImmutable indicates a mutation attempt on an immutable container.
	ErrCodeImmutable ErrorCode = "IMMUTABLE_VIOLATION"

	// ErrCodeNoMatchingMethod indicates dispatch resolution exhausted all
	// candidates for a name and signature.
	ErrCodeNoMatchingMethod ErrorCode = "NO_MATCHING_METHOD"

	// ErrCodeInvocation indicates a resolved method itself failed.
	ErrCodeInvocation ErrorCode = "INVOCATION_FAILED"

	// ErrCodeValidation indicates no stored representation satisfies the
	// validated tag.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"

	// ErrCodeMalformedInput indicates unparsable serialized text or an
	// odd-length key/value construction.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// Error represents a failed container operation.
//
// Every operation surfaces a typed failure to its caller; none are silently
// swallowed except where null-safety converts NOT_FOUND into a nil result.
// The contextual fields are populated per code: Tag/Target for conversions,
// Capability for gate failures, Method for dispatch failures.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Tag is the source representation tag, when relevant.
	Tag Tag

	// Target is the requested tag for lookup/conversion errors.
	Target Tag

	// Capability names the failed predicate for UNSUPPORTED_OPERATION.
	Capability string

	// Method names the operation for dispatch errors.
	Method string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from an error.
// Returns the empty code if the error is not a *dyn.Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether the error is a missing-representation error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsConversion reports whether the error is a coercion failure.
func IsConversion(err error) bool { return CodeOf(err) == ErrCodeConversion }

// IsUnsupported reports whether the error is a failed capability gate.
func IsUnsupported(err error) bool { return CodeOf(err) == ErrCodeUnsupported }

// IsImmutableViolation reports whether the error is a mutation attempt on an
// immutable container.
func IsImmutableViolation(err error) bool { return CodeOf(err) == ErrCodeImmutable }

// IsNoMatchingMethod reports whether dispatch resolution found no candidate.
func IsNoMatchingMethod(err error) bool { return CodeOf(err) == ErrCodeNoMatchingMethod }

func newNotFound(tag Tag) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no value found for tag %s", tag),
		Target:  tag,
	}
}

func newUnsupported(op, capability string) *Error {
	return &Error{
		Code:       ErrCodeUnsupported,
		Message:    fmt.Sprintf("%s requires %s", op, capability),
		Capability: capability,
	}
}

func newImmutableViolation(op string) *Error {
	return &Error{
		Code:    ErrCodeImmutable,
		Message: fmt.Sprintf("cannot %s an immutable container", op),
	}
}

func newConversion(from, to Tag, cause error) *Error {
	return &Error{
		Code:    ErrCodeConversion,
		Message: fmt.Sprintf("cannot convert %s to %s", from, to),
		Tag:     from,
		Target:  to,
		Err:     cause,
	}
}
