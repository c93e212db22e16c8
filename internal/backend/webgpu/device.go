//go:build windows

// Package webgpu implements the device execution context on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/born-ml/syncmem/internal/backend/pool"
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"github.com/go-webgpu/webgpu/wgpu"
)

// ErrUnavailable wraps every initialization failure of New.
var ErrUnavailable = errors.New("webgpu: backend unavailable")

// ErrFloat64Unsupported is returned for float64 kernels: WGSL has no f64.
var ErrFloat64Unsupported = errors.New("webgpu: float64 kernels are not supported")

// storageUsage is the usage of every device allocation.
const storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// Compile-time check that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// gpuBuffer is one live device allocation.
type gpuBuffer struct {
	buffer   *wgpu.Buffer
	size     int    // requested bytes
	capacity uint64 // bytes of the underlying wgpu buffer
}

// Device is a WebGPU device context.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline

	// Live allocations by handle
	buffers map[uint64]*gpuBuffer
	next    uint64
	pool    *pool.Pool[*wgpu.Buffer]

	mu sync.Mutex

	stats Stats
}

// Stats reports device memory and transfer statistics.
type Stats struct {
	AllocatedBytes  uint64
	PeakMemoryBytes uint64
	ActiveBuffers   int64
	HostToDevice    uint64
	DeviceToHost    uint64
	Kernels         uint64
	Pool            pool.Stats
}

// New creates a WebGPU device context.
// Returns an error if WebGPU is not available or initialization fails.
func New() (d *Device, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("%w: native library not loaded: %v", ErrUnavailable, r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request adapter: %w", ErrUnavailable, adapterErr)
	}

	gpu, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request device: %w", ErrUnavailable, deviceErr)
	}

	queue := gpu.GetQueue()
	if queue == nil {
		gpu.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to get queue", ErrUnavailable)
	}

	d = &Device{
		instance:  instance,
		adapter:   adapter,
		device:    gpu,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		buffers:   make(map[uint64]*gpuBuffer),
	}
	d.pool = pool.New(
		func(size uint64) (*wgpu.Buffer, error) {
			return d.device.CreateBuffer(&wgpu.BufferDescriptor{Usage: storageUsage, Size: size}), nil
		},
		func(b *wgpu.Buffer) { b.Release() },
	)
	return d, nil
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Kind returns device.WebGPU.
func (d *Device) Kind() device.Kind {
	return device.WebGPU
}

// Name returns the backend name.
func (d *Device) Name() string {
	return "WebGPU"
}

// align4 rounds n up to the 4-byte granularity of buffer copies.
func align4(n int) uint64 {
	//nolint:gosec // G115: n is non-negative
	return uint64(max(n, 4)+3) &^ 3
}

// Alloc allocates size bytes of zeroed device memory.
func (d *Device) Alloc(size int) (device.Ptr, error) {
	if size < 0 {
		return device.Ptr{}, fault.Contract("Alloc", "negative size %d", size)
	}

	buffer, capacity, reused, err := d.pool.Acquire(align4(size))
	if err != nil {
		return device.Ptr{}, fault.Resource("Alloc", err)
	}

	d.mu.Lock()
	d.next++
	handle := d.next
	d.buffers[handle] = &gpuBuffer{buffer: buffer, size: size, capacity: capacity}
	d.stats.AllocatedBytes += capacity
	d.stats.PeakMemoryBytes = max(d.stats.PeakMemoryBytes, d.stats.AllocatedBytes)
	d.stats.ActiveBuffers++
	d.mu.Unlock()

	p := device.Ptr{Handle: handle, Size: size}
	if reused && size > 0 {
		// New buffers are zeroed by WebGPU, pooled ones are not.
		if err := d.CopyToDevice(p, make([]byte, size)); err != nil {
			d.Free(p)
			return device.Ptr{}, err
		}
	}
	return p, nil
}

// Free returns an allocation to the pool.
func (d *Device) Free(p device.Ptr) {
	if p.IsNil() {
		return
	}

	d.mu.Lock()
	b, ok := d.buffers[p.Handle]
	if ok {
		delete(d.buffers, p.Handle)
		d.stats.AllocatedBytes -= b.capacity
		d.stats.ActiveBuffers--
	}
	d.mu.Unlock()

	if ok {
		d.pool.Release(b.buffer, b.capacity)
	}
}

// lookup returns the allocation behind p after checking n bytes fit.
func (d *Device) lookup(op string, p device.Ptr, n int) (*gpuBuffer, error) {
	if err := device.CheckRange(op, p, n, 1); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buffers[p.Handle]
	if !ok {
		return nil, fault.Resource(op, fmt.Errorf("%w: %s", device.ErrInvalidPtr, p))
	}
	return b, nil
}

// CopyToDevice uploads src through a mapped staging buffer.
func (d *Device) CopyToDevice(dst device.Ptr, src []byte) error {
	b, err := d.lookup("CopyToDevice", dst, len(src))
	if err != nil || len(src) == 0 {
		return err
	}

	size := align4(len(src))
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc | wgpu.BufferUsageMapWrite,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), size)
	n := copy(mapped, src)
	if uint64(n) < size {
		// Preserve the device bytes past len(src) inside the last word.
		tail, err := d.readBuffer(b.buffer, size)
		if err != nil {
			staging.Unmap()
			return fault.Resource("CopyToDevice", err)
		}
		copy(mapped[n:], tail[n:])
	}
	staging.Unmap()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, b.buffer, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	d.mu.Lock()
	d.stats.HostToDevice++
	d.mu.Unlock()
	return nil
}

// CopyToHost reads len(dst) bytes of src back to host memory.
func (d *Device) CopyToHost(dst []byte, src device.Ptr) error {
	b, err := d.lookup("CopyToHost", src, len(dst))
	if err != nil || len(dst) == 0 {
		return err
	}

	data, err := d.readBuffer(b.buffer, align4(len(dst)))
	if err != nil {
		return fault.Resource("CopyToHost", err)
	}
	copy(dst, data)

	d.mu.Lock()
	d.stats.DeviceToHost++
	d.mu.Unlock()
	return nil
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (d *Device) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	// Blocks until every submitted command, kernels included, has completed.
	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mapped)
	staging.Unmap()

	return result, nil
}

// NewGenerator creates a Philox4x32-10 generator running as a WGSL kernel.
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

// Release releases all WebGPU resources.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h, b := range d.buffers {
		b.buffer.Release()
		delete(d.buffers, h)
	}
	d.pool.Clear()

	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.shaders {
		s.Release()
	}
	d.shaders = nil

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
