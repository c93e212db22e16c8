package random

// Device samplers resolve the device generator first, so a missing device
// context is reported as ResourceUnavailable even when out is nil.

import "github.com/born-ml/syncmem/internal/device"

// SampleGaussianDevice writes n draws from N(mu, sigma^2) into device
// memory at out using the device generator.
func SampleGaussianDevice[T device.Float](c *Context, n int, mu, sigma T, out device.Ptr) error {
	const op = "SampleGaussianDevice"
	gen, err := c.generator(op)
	if err != nil {
		return err
	}
	if err := device.CheckRange(op, out, n, device.SizeOf[T]()); err != nil {
		return err
	}
	if err := checkGaussian(op, float64(mu), float64(sigma)); err != nil {
		return err
	}
	return gen.Normal(out, n, device.FloatType[T](), float64(mu), float64(sigma))
}

// SampleUniformDevice writes n draws uniformly distributed over
// [lower, upper) into device memory at out using the device generator.
func SampleUniformDevice[T device.Float](c *Context, n int, lower, upper T, out device.Ptr) error {
	const op = "SampleUniformDevice"
	gen, err := c.generator(op)
	if err != nil {
		return err
	}
	if err := device.CheckRange(op, out, n, device.SizeOf[T]()); err != nil {
		return err
	}
	if err := checkUniform(op, float64(lower), float64(upper)); err != nil {
		return err
	}
	return gen.Uniform(out, n, device.FloatType[T](), float64(lower), float64(upper))
}

// SampleUniformBitsDevice writes n uint32 values spanning [0, MaxUint32]
// into device memory at out.
func SampleUniformBitsDevice(c *Context, n int, out device.Ptr) error {
	const op = "SampleUniformBitsDevice"
	gen, err := c.generator(op)
	if err != nil {
		return err
	}
	if err := device.CheckRange(op, out, n, 4); err != nil {
		return err
	}
	return gen.Uniform32(out, n)
}
