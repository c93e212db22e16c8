// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package emulated

import (
	"github.com/born-ml/syncmem/device"
	internalemulated "github.com/born-ml/syncmem/internal/backend/emulated"
	"github.com/born-ml/syncmem/internal/parallel"
)

// Device is the emulated device execution context.
type Device = internalemulated.Device

// Stats reports allocation and transfer statistics.
type Stats = internalemulated.Stats

// Option configures a Device.
type Option = internalemulated.Option

// Compile-time check that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// ErrOutOfMemory is wrapped by Alloc errors past the memory limit.
var ErrOutOfMemory = internalemulated.ErrOutOfMemory

// New creates an emulated device. By default kernels use one goroutine
// per CPU.
func New(opts ...Option) *Device {
	return internalemulated.New(opts...)
}

// WithWorkers sets the number of goroutines kernels are split across.
// One or fewer runs kernels on the calling goroutine.
func WithWorkers(n int) Option {
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return internalemulated.WithParallel(cfg)
}

// WithMemoryLimit caps the bytes that may be allocated at once.
// Zero means unlimited.
func WithMemoryLimit(bytes uint64) Option {
	return internalemulated.WithMemoryLimit(bytes)
}
