package random

import (
	"math"

	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
)

// All parameter checks run before the first draw, so a failed call leaves
// both the output and the engine state untouched.

func checkCount(op string, n, capacity int) error {
	if n < 0 {
		return fault.Contract(op, "negative sample count %d", n)
	}
	if n > capacity {
		return fault.Contract(op, "sample count %d exceeds output length %d", n, capacity)
	}
	return nil
}

func checkGaussian(op string, mu, sigma float64) error {
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return fault.Contract(op, "mu must be finite, got %v", mu)
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma < 0 {
		return fault.Contract(op, "sigma must be finite and non-negative, got %v", sigma)
	}
	return nil
}

func checkUniform(op string, lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return fault.Contract(op, "bounds must be finite, got [%v, %v)", lower, upper)
	}
	if upper < lower {
		return fault.Contract(op, "upper %v < lower %v", upper, lower)
	}
	return nil
}

func checkBernoulli(op string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fault.Contract(op, "p must be in [0, 1], got %v", p)
	}
	return nil
}

// clampUniform rounds v to T and keeps it inside [lower, upper).
func clampUniform[T device.Float](v float64, lower, upper T) T {
	x := T(v)
	if x >= upper && upper > lower {
		x = nextBelow(upper)
	}
	if x < lower {
		x = lower
	}
	return x
}

// nextBelow returns the largest T strictly less than x.
func nextBelow[T device.Float](x T) T {
	if device.FloatType[T]() == device.Float32 {
		return T(math.Nextafter32(float32(x), float32(math.Inf(-1))))
	}
	return T(math.Nextafter(float64(x), math.Inf(-1)))
}
