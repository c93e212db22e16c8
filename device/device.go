// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device provides the public API of the device execution context.
//
// A Device is created by a backend constructor (see backend/emulated and
// backend/webgpu) and passed to synced buffers and random contexts:
//
//	dev := emulated.New()
//	defer dev.Release()
//
//	buf, _ := syncedmem.New(4*1024, dev)
//	ptr, _ := buf.MutableDeviceData()
package device

import (
	"github.com/born-ml/syncmem/internal/device"
)

// Device is a device execution context.
type Device = device.Device

// Generator is a device-resident pseudorandom generator.
type Generator = device.Generator

// Ptr is an opaque handle to device memory. The zero value is nil.
type Ptr = device.Ptr

// Kind identifies the backend behind a Device.
type Kind = device.Kind

// Device kinds.
const (
	Emulated Kind = device.Emulated
	WebGPU   Kind = device.WebGPU
)

// DataType identifies an element type of device memory.
type DataType = device.DataType

// Data type constants.
const (
	Float32 DataType = device.Float32
	Float64 DataType = device.Float64
	Uint32  DataType = device.Uint32
)

// Float is a constraint for floating-point sample types.
type Float = device.Float

// Integer is a constraint for Bernoulli output types.
type Integer = device.Integer

// Numeric is a constraint for typed buffer views.
type Numeric = device.Numeric

// Errors.
var (
	// ErrNoDevice is returned when device memory is requested without a
	// device context.
	ErrNoDevice = device.ErrNoDevice
	// ErrInvalidPtr is returned for handles a backend does not know.
	ErrInvalidPtr = device.ErrInvalidPtr
)

// SizeOf returns the size of T in bytes.
func SizeOf[T Numeric]() int {
	return device.SizeOf[T]()
}
