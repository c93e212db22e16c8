//go:build !windows

// Package webgpu implements the device execution context on WebGPU.
//
// The WebGPU backend is built on Windows only; elsewhere New reports
// ErrUnavailable.
package webgpu

import (
	"errors"

	"github.com/born-ml/syncmem/internal/device"
)

// ErrUnavailable is returned by New on platforms without a WebGPU build.
var ErrUnavailable = errors.New("webgpu: backend not built for this platform")

// ErrFloat64Unsupported is returned for float64 kernels: WGSL has no f64.
var ErrFloat64Unsupported = errors.New("webgpu: float64 kernels are not supported")

// Device is a WebGPU device context. It cannot be constructed on this platform.
type Device struct {
	device.Device
}

// New always returns ErrUnavailable.
func New() (*Device, error) {
	return nil, ErrUnavailable
}

// IsAvailable reports false.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (d *Device) Release() {}
