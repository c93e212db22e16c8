// Package syncedmem provides a fixed-size byte region mirrored in host and
// device memory and synchronized lazily.
//
// A Buffer tracks which space holds the authoritative copy. Accessors for
// one space copy from the other only when that other space is ahead, and
// mutable accessors mark the other space stale. All allocation and copying
// goes through toHost and toDevice.
//
// A Buffer is not safe for concurrent use.
package syncedmem

import (
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
)

// State records which memory space holds the authoritative copy.
type State int

// Sync states.
const (
	Uninitialized State = iota // Nothing allocated yet
	HeadAtHost                 // Host copy is authoritative
	HeadAtDevice               // Device copy is authoritative
	Synced                     // Both copies hold identical bytes
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case HeadAtHost:
		return "HeadAtHost"
	case HeadAtDevice:
		return "HeadAtDevice"
	case Synced:
		return "Synced"
	default:
		return "Unknown"
	}
}

// Buffer is a lazily synchronized host/device byte region.
type Buffer struct {
	size  int
	state State

	host []byte

	dev    device.Device
	devPtr device.Ptr

	released bool
}

// New creates a buffer of size bytes. dev may be nil for processes without a
// device context; device accessors then fail with ResourceUnavailable.
// No memory is allocated until first access.
func New(size int, dev device.Device) (*Buffer, error) {
	if size < 0 {
		return nil, fault.Contract("syncedmem.New", "negative size %d", size)
	}
	return &Buffer{size: size, dev: dev}, nil
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// State returns the current sync state.
func (b *Buffer) State() State {
	return b.state
}

// Device returns the device context, or nil.
func (b *Buffer) Device() device.Device {
	return b.dev
}

// HostData returns the host bytes, copying from the device first if the
// device is ahead. The result must be treated as read-only: writes through
// it are not tracked. Use MutableHostData to write.
func (b *Buffer) HostData() ([]byte, error) {
	if err := b.toHost("HostData"); err != nil {
		return nil, err
	}
	return b.host, nil
}

// MutableHostData returns writable host bytes and marks the device copy
// stale.
func (b *Buffer) MutableHostData() ([]byte, error) {
	if err := b.toHost("MutableHostData"); err != nil {
		return nil, err
	}
	b.state = HeadAtHost
	return b.host, nil
}

// DeviceData returns the device pointer, copying from the host first if the
// host is ahead. The device memory must be treated as read-only.
func (b *Buffer) DeviceData() (device.Ptr, error) {
	if err := b.toDevice("DeviceData"); err != nil {
		return device.Ptr{}, err
	}
	return b.devPtr, nil
}

// MutableDeviceData returns the device pointer for writing and marks the
// host copy stale.
func (b *Buffer) MutableDeviceData() (device.Ptr, error) {
	if err := b.toDevice("MutableDeviceData"); err != nil {
		return device.Ptr{}, err
	}
	b.state = HeadAtDevice
	return b.devPtr, nil
}

// SetHostData makes data the host copy and marks it authoritative.
// data must be exactly Size bytes. The buffer does not take ownership: the
// caller keeps data alive and the buffer never frees it.
func (b *Buffer) SetHostData(data []byte) error {
	const op = "SetHostData"
	if b.released {
		return fault.Contract(op, "buffer released")
	}
	if len(data) != b.size {
		return fault.Contract(op, "got %d bytes, buffer holds %d", len(data), b.size)
	}
	b.host = data
	b.state = HeadAtHost
	return nil
}

// Release frees both allocations. Further access is a contract violation.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.dev != nil && !b.devPtr.IsNil() {
		b.dev.Free(b.devPtr)
	}
	b.devPtr = device.Ptr{}
	b.host = nil
}

// toHost makes the host copy current. It is the only path that allocates
// host memory or copies device to host.
func (b *Buffer) toHost(op string) error {
	if b.released {
		return fault.Contract(op, "buffer released")
	}

	switch b.state {
	case Uninitialized:
		b.allocHost()
		b.state = HeadAtHost
	case HeadAtDevice:
		if b.host == nil {
			b.allocHost()
		}
		if err := b.dev.CopyToHost(b.host, b.devPtr); err != nil {
			return fault.Resource(op, err)
		}
		b.state = Synced
	case HeadAtHost, Synced:
	}
	return nil
}

// toDevice makes the device copy current. It is the only path that
// allocates device memory or copies host to device.
func (b *Buffer) toDevice(op string) error {
	if b.released {
		return fault.Contract(op, "buffer released")
	}
	if b.dev == nil {
		return fault.Resource(op, device.ErrNoDevice)
	}

	switch b.state {
	case Uninitialized:
		if err := b.allocDevice(op); err != nil {
			return err
		}
		b.state = HeadAtDevice
	case HeadAtHost:
		if b.devPtr.IsNil() {
			if err := b.allocDevice(op); err != nil {
				return err
			}
		}
		if err := b.dev.CopyToDevice(b.devPtr, b.host); err != nil {
			return fault.Resource(op, err)
		}
		b.state = Synced
	case HeadAtDevice, Synced:
	}
	return nil
}

func (b *Buffer) allocHost() {
	b.host = make([]byte, b.size)
}

func (b *Buffer) allocDevice(op string) error {
	p, err := b.dev.Alloc(b.size)
	if err != nil {
		return fault.Resource(op, err)
	}
	b.devPtr = p
	return nil
}
