// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU device for synced buffers and device
// sampling.
//
// The backend is built on Windows, where the go-webgpu bindings load
// wgpu_native without CGO. On other platforms New returns ErrUnavailable.
// Device sampling supports float32 only: WGSL has no f64, and float64
// requests fail with ErrFloat64Unsupported.
//
// Example:
//
//	var dev device.Device = emulated.New()
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//	    dev = gpu
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/syncmem/internal/backend/webgpu"
)

// Device is the WebGPU device execution context.
type Device = internalwebgpu.Device

// Errors.
var (
	// ErrUnavailable is wrapped by New errors when no WebGPU device exists.
	ErrUnavailable = internalwebgpu.ErrUnavailable
	// ErrFloat64Unsupported is wrapped by float64 device sampling errors.
	ErrFloat64Unsupported = internalwebgpu.ErrFloat64Unsupported
)

// New creates a WebGPU device. Call Release when done to free GPU
// resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Device, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
