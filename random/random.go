// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package random provides seed-reproducible random sampling into host
// slices and device memory.
//
// A Context owns one host engine (MT19937) and one device generator
// (Philox4x32-10). Reseeding with the same seed reproduces both streams:
//
//	ctx := random.New(dev, random.WithSeed(1701))
//	defer ctx.Release()
//
//	xs := make([]float64, 1000)
//	if err := random.SampleGaussian(ctx, len(xs), 0.0, 1.0, xs); err != nil {
//	    log.Fatal(err)
//	}
//
// A Context is not safe for concurrent use.
package random

import (
	"github.com/born-ml/syncmem/device"
	"github.com/born-ml/syncmem/internal/random"
)

// Context is the random stream controller.
type Context = random.Context

// Option configures a Context.
type Option = random.Option

// New creates a context. dev may be nil; device samplers then fail with
// device.ErrNoDevice.
func New(dev device.Device, opts ...Option) *Context {
	return random.New(dev, opts...)
}

// WithSeed seeds both engines. Without it the seed is drawn from OS
// entropy on first use.
func WithSeed(seed uint32) Option {
	return random.WithSeed(seed)
}

// SampleGaussian fills out[:n] with draws from N(mu, sigma^2).
func SampleGaussian[T device.Float](c *Context, n int, mu, sigma T, out []T) error {
	return random.SampleGaussian(c, n, mu, sigma, out)
}

// SampleUniform fills out[:n] with draws from [lower, upper).
func SampleUniform[T device.Float](c *Context, n int, lower, upper T, out []T) error {
	return random.SampleUniform(c, n, lower, upper, out)
}

// SampleBernoulli fills out[:n] with 0/1 draws that are 1 with
// probability p.
func SampleBernoulli[I device.Integer](c *Context, n int, p float64, out []I) error {
	return random.SampleBernoulli(c, n, p, out)
}

// SampleGaussianDevice fills n elements of T at out with draws from
// N(mu, sigma^2), on the device.
func SampleGaussianDevice[T device.Float](c *Context, n int, mu, sigma T, out device.Ptr) error {
	return random.SampleGaussianDevice(c, n, mu, sigma, out)
}

// SampleUniformDevice fills n elements of T at out with draws from
// [lower, upper), on the device.
func SampleUniformDevice[T device.Float](c *Context, n int, lower, upper T, out device.Ptr) error {
	return random.SampleUniformDevice(c, n, lower, upper, out)
}

// SampleUniformBitsDevice fills n uint32 values at out spanning the full
// uint32 range.
func SampleUniformBitsDevice(c *Context, n int, out device.Ptr) error {
	return random.SampleUniformBitsDevice(c, n, out)
}
