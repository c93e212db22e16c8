// Package fault defines the two failure kinds of the synced memory and
// sampling primitives.
//
// Both kinds are fail-fast: callers are expected to stop using the buffer or
// context that produced them. Must and Must1 turn them into panics for code
// that prefers the abort behavior.
package fault

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrContractViolation reports parameters that break a documented
	// precondition, e.g. upper < lower.
	ErrContractViolation = errors.New("contract violation")
	// ErrResourceUnavailable reports a missing device context or a failed
	// allocation or transfer.
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// Error describes a failed operation.
type Error struct {
	Kind    error  // ErrContractViolation or ErrResourceUnavailable
	Op      string // Operation name, e.g. "SampleUniform"
	Details string // Human readable details
	Err     error  // Underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Contract returns a contract violation for op.
func Contract(op, format string, args ...any) error {
	return &Error{Kind: ErrContractViolation, Op: op, Details: fmt.Sprintf(format, args...)}
}

// Resource returns a resource failure for op caused by err.
func Resource(op string, err error) error {
	return &Error{Kind: ErrResourceUnavailable, Op: op, Err: err}
}

// IsContract reports whether err is a contract violation.
func IsContract(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsResource reports whether err is a resource failure.
func IsResource(err error) bool {
	return errors.Is(err, ErrResourceUnavailable)
}

// Must panics if err is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v, or panics if err is non-nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
