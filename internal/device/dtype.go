package device

import "unsafe"

// Float is the constraint for sampled element types.
type Float interface {
	~float32 | ~float64
}

// Integer is the constraint for Bernoulli outputs and raw bit outputs.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~int
}

// Numeric is any element type a buffer may be reinterpreted as.
type Numeric interface {
	Float | Integer | ~uint8 | ~int8 | ~int16 | ~uint16
}

// DataType is runtime type information passed to device kernels.
type DataType int

// Data types understood by device generators.
const (
	Float32 DataType = iota
	Float64
	Uint32
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Uint32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Uint32:
		return "uint32"
	default:
		return "unknown"
	}
}

// FloatType returns the DataType of T.
func FloatType[T Float]() DataType {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		return Float32
	}
	return Float64
}

// SizeOf returns the width of T in bytes.
func SizeOf[T Numeric]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
