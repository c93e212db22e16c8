// Package emulated implements an in-process device execution context.
//
// Device memory lives in a separate arena addressed by opaque handles, so
// host code can only reach it through CopyToDevice and CopyToHost, exactly
// as with a discrete accelerator. Kernels run the shared Philox4x32-10
// layout split across worker goroutines and block until done.
package emulated

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/born-ml/syncmem/internal/backend/pool"
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"github.com/born-ml/syncmem/internal/parallel"
)

// ErrOutOfMemory is returned when an allocation would exceed the memory limit.
var ErrOutOfMemory = errors.New("emulated device out of memory")

// Compile-time check that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// allocation is one live device allocation.
type allocation struct {
	data     []byte
	capacity uint64
}

// Device is an emulated device context. It is safe for concurrent use;
// the generators it creates are not.
type Device struct {
	mu     sync.Mutex
	next   uint64
	allocs map[uint64]*allocation
	pool   *pool.Pool[[]byte]

	par   parallel.Config
	limit uint64

	stats Stats
}

// Stats reports device memory and transfer statistics.
type Stats struct {
	// Bytes currently allocated
	AllocatedBytes uint64
	// Peak of AllocatedBytes
	PeakMemoryBytes uint64
	// Number of live allocations
	ActiveBuffers int64
	// Host to device copies and bytes
	HostToDevice      uint64
	HostToDeviceBytes uint64
	// Device to host copies and bytes
	DeviceToHost      uint64
	DeviceToHostBytes uint64
	// Generator kernel launches
	Kernels uint64
	// Allocation pool statistics
	Pool pool.Stats
}

// Option configures a Device.
type Option func(*Device)

// WithParallel sets how kernels are split across goroutines.
func WithParallel(cfg parallel.Config) Option {
	return func(d *Device) { d.par = cfg }
}

// WithMemoryLimit caps the bytes that may be allocated at once.
// Zero means unlimited.
func WithMemoryLimit(bytes uint64) Option {
	return func(d *Device) { d.limit = bytes }
}

// New creates an emulated device.
func New(opts ...Option) *Device {
	d := &Device{
		allocs: make(map[uint64]*allocation),
		par:    parallel.DefaultConfig(),
	}
	d.pool = pool.New(
		func(size uint64) ([]byte, error) { return make([]byte, size), nil },
		func([]byte) {},
	)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Kind returns device.Emulated.
func (d *Device) Kind() device.Kind {
	return device.Emulated
}

// Name returns the backend name.
func (d *Device) Name() string {
	return fmt.Sprintf("Emulated (%d workers)", max(d.par.NumWorkers, 1))
}

// Alloc allocates size bytes of zeroed device memory.
func (d *Device) Alloc(size int) (device.Ptr, error) {
	if size < 0 {
		return device.Ptr{}, fault.Contract("Alloc", "negative size %d", size)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	//nolint:gosec // G115: size checked non-negative above
	usize := uint64(size)
	if d.limit > 0 && d.stats.AllocatedBytes+usize > d.limit {
		return device.Ptr{}, fault.Resource("Alloc", fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrOutOfMemory, size, d.stats.AllocatedBytes, d.limit))
	}

	data, capacity, reused, err := d.pool.Acquire(usize)
	if err != nil {
		return device.Ptr{}, fault.Resource("Alloc", err)
	}
	data = data[:size]
	if reused {
		clear(data)
	}

	d.next++
	d.allocs[d.next] = &allocation{data: data, capacity: capacity}

	d.stats.AllocatedBytes += usize
	d.stats.PeakMemoryBytes = max(d.stats.PeakMemoryBytes, d.stats.AllocatedBytes)
	d.stats.ActiveBuffers++

	return device.Ptr{Handle: d.next, Size: size}, nil
}

// Free releases an allocation back to the pool.
func (d *Device) Free(p device.Ptr) {
	if p.IsNil() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.allocs[p.Handle]
	if !ok {
		return
	}
	delete(d.allocs, p.Handle)
	d.pool.Release(a.data[:cap(a.data)], a.capacity)

	d.stats.AllocatedBytes -= uint64(len(a.data))
	d.stats.ActiveBuffers--
}

// CopyToDevice copies src into the allocation behind dst.
func (d *Device) CopyToDevice(dst device.Ptr, src []byte) error {
	mem, err := d.memory("CopyToDevice", dst, len(src))
	if err != nil {
		return err
	}
	copy(mem, src)

	d.mu.Lock()
	d.stats.HostToDevice++
	d.stats.HostToDeviceBytes += uint64(len(src))
	d.mu.Unlock()
	return nil
}

// CopyToHost copies len(dst) bytes of src into dst.
func (d *Device) CopyToHost(dst []byte, src device.Ptr) error {
	mem, err := d.memory("CopyToHost", src, len(dst))
	if err != nil {
		return err
	}
	copy(dst, mem)

	d.mu.Lock()
	d.stats.DeviceToHost++
	d.stats.DeviceToHostBytes += uint64(len(dst))
	d.mu.Unlock()
	return nil
}

// NewGenerator creates a Philox4x32-10 generator bound to this device.
func (d *Device) NewGenerator(seed uint64) (device.Generator, error) {
	g := &generator{dev: d}
	g.SetSeed(seed)
	return g, nil
}

// Stats returns a snapshot of device statistics.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stats
	s.Pool = d.pool.Stats()
	return s
}

// Release frees every allocation and idle pooled block.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	clear(d.allocs)
	d.pool.Clear()
	d.stats.AllocatedBytes = 0
	d.stats.ActiveBuffers = 0
}

// memory returns the first n bytes of the allocation behind p.
func (d *Device) memory(op string, p device.Ptr, n int) ([]byte, error) {
	if err := device.CheckRange(op, p, n, 1); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.allocs[p.Handle]
	if !ok {
		return nil, fault.Resource(op, fmt.Errorf("%w: %s", device.ErrInvalidPtr, p))
	}
	if n > len(a.data) {
		return nil, fault.Contract(op, "%d bytes exceed allocation of %d", n, len(a.data))
	}
	return a.data[:n], nil
}

// view reinterprets device bytes as n elements of T.
func view[T any](mem []byte, n int) []T {
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy kernel writes, bounds checked by memory()
	return unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), n)
}
