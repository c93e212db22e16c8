// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package syncedmem provides byte buffers mirrored in host and device
// memory.
//
// A Buffer allocates each copy on first use and copies between them only
// when the side being accessed is stale. Accessors named Mutable mark the
// other side stale:
//
//	buf, _ := syncedmem.New(n*4, dev)
//	ptr, _ := buf.MutableDeviceData()       // device is authoritative
//	_ = random.SampleGaussianDevice(ctx, n, float32(0), 1, ptr)
//	xs, _ := syncedmem.Host[float32](buf)   // one device to host copy
//
// Buffers are not safe for concurrent use.
package syncedmem

import (
	"github.com/born-ml/syncmem/device"
	"github.com/born-ml/syncmem/internal/syncedmem"
)

// Buffer is a fixed-size region mirrored in host and device memory.
type Buffer = syncedmem.Buffer

// State tells which copy of a Buffer is authoritative.
type State = syncedmem.State

// Buffer states.
const (
	Uninitialized = syncedmem.Uninitialized
	HeadAtHost    = syncedmem.HeadAtHost
	HeadAtDevice  = syncedmem.HeadAtDevice
	Synced        = syncedmem.Synced
)

// New creates a buffer of size bytes. dev may be nil for a host-only
// buffer; device accessors then fail with device.ErrNoDevice.
func New(size int, dev device.Device) (*Buffer, error) {
	return syncedmem.New(size, dev)
}

// Host returns the host bytes of b as a read-only []T.
func Host[T device.Numeric](b *Buffer) ([]T, error) {
	return syncedmem.Host[T](b)
}

// MutableHost returns the host bytes of b as a writable []T and marks the
// device copy stale.
func MutableHost[T device.Numeric](b *Buffer) ([]T, error) {
	return syncedmem.MutableHost[T](b)
}

// Len returns the number of T elements b holds.
func Len[T device.Numeric](b *Buffer) int {
	return syncedmem.Len[T](b)
}
