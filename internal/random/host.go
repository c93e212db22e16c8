package random

import (
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/random/philox"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleGaussian writes n draws from N(mu, sigma^2) into out[:n] using the
// host engine.
func SampleGaussian[T device.Float](c *Context, n int, mu, sigma T, out []T) error {
	const op = "SampleGaussian"
	if err := checkCount(op, n, len(out)); err != nil {
		return err
	}
	if err := checkGaussian(op, float64(mu), float64(sigma)); err != nil {
		return err
	}

	dist := distuv.Normal{Mu: float64(mu), Sigma: float64(sigma), Src: c.hostEngine()}
	for i := range out[:n] {
		out[i] = T(dist.Rand())
	}
	return nil
}

// SampleUniform writes n draws uniformly distributed over [lower, upper)
// into out[:n] using the host engine. lower == upper fills with lower.
func SampleUniform[T device.Float](c *Context, n int, lower, upper T, out []T) error {
	const op = "SampleUniform"
	if err := checkCount(op, n, len(out)); err != nil {
		return err
	}
	if err := checkUniform(op, float64(lower), float64(upper)); err != nil {
		return err
	}

	// Scale unit draws so spans wider than the float range stay finite.
	unit := distuv.Uniform{Min: 0, Max: 1, Src: c.hostEngine()}
	lo, hi := float64(lower), float64(upper)
	for i := range out[:n] {
		out[i] = clampUniform(philox.ScaleUniform64(unit.Rand(), lo, hi), lower, upper)
	}
	return nil
}

// SampleBernoulli writes n draws in {0, 1} with P(1) = p into out[:n] using
// the host engine.
func SampleBernoulli[I device.Integer](c *Context, n int, p float64, out []I) error {
	const op = "SampleBernoulli"
	if err := checkCount(op, n, len(out)); err != nil {
		return err
	}
	if err := checkBernoulli(op, p); err != nil {
		return err
	}

	dist := distuv.Bernoulli{P: p, Src: c.hostEngine()}
	for i := range out[:n] {
		out[i] = I(dist.Rand())
	}
	return nil
}
