// Package device defines the device execution context consumed by synced
// buffers and device samplers.
//
// A Device is created by a backend (see internal/backend) and is process
// wide. Device memory is addressed through opaque Ptr handles that are never
// valid host addresses: the only way to move bytes between the spaces is
// CopyToDevice and CopyToHost.
package device

import (
	"errors"
	"fmt"

	"github.com/born-ml/syncmem/internal/fault"
)

// Kind identifies the backend behind a Device.
type Kind int

// Supported device kinds.
const (
	Emulated Kind = iota
	WebGPU
)

// String returns a human-readable device name.
func (k Kind) String() string {
	switch k {
	case Emulated:
		return "Emulated"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// ErrNoDevice is returned when device memory or a device generator is
// requested but no device context is available.
var ErrNoDevice = fmt.Errorf("no device execution context: %w", fault.ErrResourceUnavailable)

// ErrInvalidPtr is returned by backends for handles they did not allocate
// or that were already freed.
var ErrInvalidPtr = errors.New("invalid device pointer")

// Ptr is an opaque handle to a device allocation.
// The zero value is the nil device pointer.
type Ptr struct {
	Handle uint64 // Backend-specific allocation id, 0 means nil
	Size   int    // Allocation size in bytes
}

// IsNil reports whether p refers to no allocation.
func (p Ptr) IsNil() bool {
	return p.Handle == 0
}

// String implements fmt.Stringer.
func (p Ptr) String() string {
	if p.IsNil() {
		return "dev(nil)"
	}
	return fmt.Sprintf("dev(%#x,%dB)", p.Handle, p.Size)
}

// Device is a device execution context.
//
// All methods block until the device work completes.
type Device interface {
	// Kind returns the backend kind.
	Kind() Kind
	// Name returns a descriptive backend name.
	Name() string

	// Alloc allocates size bytes of zeroed device memory.
	Alloc(size int) (Ptr, error)
	// Free releases an allocation. Freeing the nil Ptr is a no-op.
	Free(p Ptr)

	// CopyToDevice copies len(src) bytes from host memory into dst.
	CopyToDevice(dst Ptr, src []byte) error
	// CopyToHost copies len(dst) bytes from src into host memory.
	CopyToHost(dst []byte, src Ptr) error

	// NewGenerator creates the device random generator for this context.
	NewGenerator(seed uint64) (Generator, error)
}

// Generator is a device-resident pseudorandom generator.
//
// Outputs are written directly into device memory. A Generator is not safe
// for concurrent use.
type Generator interface {
	// SetSeed rekeys the generator and resets its stream offset.
	SetSeed(seed uint64)
	// Offset returns the number of stream blocks consumed since the last
	// SetSeed.
	Offset() uint64

	// Uniform32 fills n uint32 values spanning the full uint32 range.
	Uniform32(dst Ptr, n int) error
	// Uniform fills n values of dt uniformly distributed over [lower, upper).
	Uniform(dst Ptr, n int, dt DataType, lower, upper float64) error
	// Normal fills n values of dt drawn from N(mu, sigma^2).
	Normal(dst Ptr, n int, dt DataType, mu, sigma float64) error

	// Release frees generator resources.
	Release()
}

// CheckRange verifies that n elements of elemSize bytes fit in p.
func CheckRange(op string, p Ptr, n, elemSize int) error {
	if p.IsNil() && n > 0 {
		return fault.Contract(op, "nil device pointer")
	}
	if n < 0 {
		return fault.Contract(op, "negative element count %d", n)
	}
	if need := n * elemSize; need > p.Size {
		return fault.Contract(op, "%d elements of %d bytes exceed %s", n, elemSize, p)
	}
	return nil
}
