package syncedmem

import (
	"unsafe"

	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
)

// Host returns the host copy reinterpreted as []T (read-only by contract).
// The buffer size must be a multiple of the width of T.
func Host[T device.Numeric](b *Buffer) ([]T, error) {
	if err := checkElem[T]("Host", b); err != nil {
		return nil, err
	}
	data, err := b.HostData()
	if err != nil {
		return nil, err
	}
	return reinterpret[T](data), nil
}

// MutableHost returns the host copy reinterpreted as writable []T.
// The buffer size must be a multiple of the width of T.
func MutableHost[T device.Numeric](b *Buffer) ([]T, error) {
	if err := checkElem[T]("MutableHost", b); err != nil {
		return nil, err
	}
	data, err := b.MutableHostData()
	if err != nil {
		return nil, err
	}
	return reinterpret[T](data), nil
}

// Len returns how many elements of T the buffer holds.
func Len[T device.Numeric](b *Buffer) int {
	return b.size / device.SizeOf[T]()
}

func checkElem[T device.Numeric](op string, b *Buffer) error {
	if w := device.SizeOf[T](); b.size%w != 0 {
		return fault.Contract(op, "size %d is not a multiple of element width %d", b.size, w)
	}
	return nil
}

func reinterpret[T device.Numeric](data []byte) []T {
	if len(data) == 0 {
		return []T{}
	}
	n := len(data) / device.SizeOf[T]()
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length checked by checkElem
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
}
