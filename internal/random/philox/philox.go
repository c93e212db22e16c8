// Package philox implements the Philox4x32-10 counter-based generator and
// the stream layout shared by every device backend.
//
// Output is a pure function of (key, counter), so a kernel may split a
// stream across any number of workers, or across GPU invocations, and still
// produce the same values. Backends written in other languages (see the
// WGSL kernel in internal/backend/webgpu) must follow the layout described
// by Stream.
package philox

import (
	"math"
	"math/bits"
)

// Philox4x32 round constants.
const (
	m0 = 0xD2511F53
	m1 = 0xCD9E8D57
	w0 = 0x9E3779B9 // golden ratio
	w1 = 0xBB67AE85 // sqrt(3) - 1

	// Rounds is the number of Philox rounds.
	Rounds = 10
	// WordsPerBlock is the number of uint32 words one counter yields.
	WordsPerBlock = 4
)

// Key is the 64-bit Philox key.
type Key [2]uint32

// Counter is the 128-bit Philox counter.
type Counter [4]uint32

// KeyFromSeed splits seed into a Philox key.
func KeyFromSeed(seed uint64) Key {
	return Key{uint32(seed), uint32(seed >> 32)}
}

// CounterAt returns the counter of block index b.
func CounterAt(b uint64) Counter {
	return Counter{uint32(b), uint32(b >> 32), 0, 0}
}

func round(c Counter, k Key) Counter {
	hi0, lo0 := bits.Mul32(m0, c[0])
	hi1, lo1 := bits.Mul32(m1, c[2])
	return Counter{hi1 ^ c[1] ^ k[0], lo1, hi0 ^ c[3] ^ k[1], lo0}
}

// Philox4x32 applies Rounds rounds to ctr under key.
func Philox4x32(ctr Counter, key Key) [WordsPerBlock]uint32 {
	for i := 0; i < Rounds; i++ {
		if i > 0 {
			key[0] += w0
			key[1] += w1
		}
		ctr = round(ctr, key)
	}
	return ctr
}

// Unit32 maps x to a float32 in [0, 1) using its top 24 bits.
func Unit32(x uint32) float32 {
	return float32(x>>8) * (1.0 / (1 << 24))
}

// OpenUnit32 maps x to a float32 strictly inside (0, 1) using its top 23
// bits, so the half step stays representable below 1.
func OpenUnit32(x uint32) float32 {
	return (float32(x>>9) + 0.5) * (1.0 / (1 << 23))
}

// Unit64 maps (hi, lo) to a float64 in [0, 1) using 53 bits.
func Unit64(hi, lo uint32) float64 {
	v := (uint64(hi)<<32 | uint64(lo)) >> 11
	return float64(v) * (1.0 / (1 << 53))
}

// OpenUnit64 maps (hi, lo) to a float64 strictly inside (0, 1) using 52
// bits.
func OpenUnit64(hi, lo uint32) float64 {
	v := (uint64(hi)<<32 | uint64(lo)) >> 12
	return (float64(v) + 0.5) * (1.0 / (1 << 52))
}

// BoxMuller turns u1 in (0, 1) and u2 in [0, 1) into two independent
// standard normal deviates.
func BoxMuller(u1, u2 float64) (float64, float64) {
	r := math.Sqrt(-2 * math.Log(u1))
	s, c := math.Sincos(2 * math.Pi * u2)
	return r * c, r * s
}

// ScaleUniform32 maps u in [0, 1) to [lower, upper), clamping rounding at
// the upper edge. Spans wider than MaxFloat32 are scaled at half size.
func ScaleUniform32(u float32, lower, upper float32) float32 {
	var v float32
	if span := upper - lower; !math.IsInf(float64(span), 0) {
		v = lower + u*span
	} else {
		v = 2 * (lower/2 + u*(upper/2-lower/2))
	}
	if v >= upper && upper > lower {
		v = math.Nextafter32(upper, lower)
	}
	if v < lower {
		v = lower
	}
	return v
}

// ScaleUniform64 maps u in [0, 1) to [lower, upper), clamping rounding at
// the upper edge. Spans wider than MaxFloat64 are scaled at half size.
func ScaleUniform64(u float64, lower, upper float64) float64 {
	var v float64
	if span := upper - lower; !math.IsInf(span, 0) {
		v = lower + u*span
	} else {
		v = 2 * (lower/2 + u*(upper/2-lower/2))
	}
	if v >= upper && upper > lower {
		v = math.Nextafter(upper, lower)
	}
	if v < lower {
		v = lower
	}
	return v
}
