// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package device

import (
	"github.com/born-ml/syncmem/internal/fault"
)

// Error describes a failed operation. Use errors.Is with
// ErrContractViolation or ErrResourceUnavailable to classify it.
type Error = fault.Error

// Error kinds.
var (
	// ErrContractViolation reports parameters that break a precondition.
	ErrContractViolation = fault.ErrContractViolation
	// ErrResourceUnavailable reports a missing device or a failed
	// allocation or transfer.
	ErrResourceUnavailable = fault.ErrResourceUnavailable
)

// IsContract reports whether err is a contract violation.
func IsContract(err error) bool {
	return fault.IsContract(err)
}

// IsResource reports whether err is a resource failure.
func IsResource(err error) bool {
	return fault.IsResource(err)
}

// Must panics if err is non-nil.
func Must(err error) {
	fault.Must(err)
}

// Must1 returns v, or panics if err is non-nil.
func Must1[T any](v T, err error) T {
	return fault.Must1(v, err)
}
