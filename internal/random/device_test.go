package random

import (
	"math"
	"testing"

	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"github.com/born-ml/syncmem/internal/syncedmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRngGaussianDevice[T device.Float](mu, sigma T) func(t *testing.T) {
	return func(t *testing.T) {
		f := newFixture[T](t)
		p := mutableDevice(t, f.data)
		require.NoError(t, SampleGaussianDevice(f.ctx, sampleSize, mu, sigma, p))

		before := f.dev.Stats().DeviceToHost
		data := host[T](t, f.data)
		assert.Equal(t, before+1, f.dev.Stats().DeviceToHost, "reading back must copy exactly once")
		gaussianChecks(t, mu, sigma, data)
	}
}

func TestRngGaussianDevice(t *testing.T) {
	forEachFloat(t, testRngGaussianDevice[float32](0, 1), testRngGaussianDevice[float64](0, 1))
}

func TestRngGaussian2Device(t *testing.T) {
	forEachFloat(t, testRngGaussianDevice[float32](-2, 3), testRngGaussianDevice[float64](-2, 3))
}

func testRngUniformDevice[T device.Float](lower, upper T) func(t *testing.T) {
	return func(t *testing.T) {
		f := newFixture[T](t)
		p := mutableDevice(t, f.data)
		require.NoError(t, SampleUniformDevice(f.ctx, sampleSize, lower, upper, p))
		uniformChecks(t, lower, upper, host[T](t, f.data))
	}
}

func TestRngUniformDevice(t *testing.T) {
	forEachFloat(t, testRngUniformDevice[float32](0, 1), testRngUniformDevice[float64](0, 1))
}

func TestRngUniform2Device(t *testing.T) {
	forEachFloat(t, testRngUniformDevice[float32](-7.3, -2.3), testRngUniformDevice[float64](-7.3, -2.3))
}

func testRngUniformWideDevice[T device.Float](lower, upper T) func(t *testing.T) {
	return func(t *testing.T) {
		f := newFixture[T](t)
		p := mutableDevice(t, f.data)
		require.NoError(t, SampleUniformDevice(f.ctx, sampleSize, lower, upper, p))
		wideUniformChecks(t, lower, upper, host[T](t, f.data))
	}
}

func TestRngUniformDevice_WideSpan(t *testing.T) {
	forEachFloat(t,
		testRngUniformWideDevice(float32(-0.9*math.MaxFloat32), float32(0.9*math.MaxFloat32)),
		testRngUniformWideDevice(-0.9*math.MaxFloat64, 0.9*math.MaxFloat64))
}

func testRngUniformIntDevice[T device.Float](t *testing.T) {
	f := newFixture[T](t)

	p := mutableDevice(t, f.intData)
	require.NoError(t, SampleUniformBitsDevice(f.ctx, sampleSize, p))
	bits := host[uint32](t, f.intData)

	data := mutableHost[T](t, f.data)
	for i, v := range bits {
		data[i] = T(v)
	}
	uniformChecks(t, T(0), T(math.MaxUint32), data)
}

func TestRngUniformIntDevice(t *testing.T) {
	forEachFloat(t, testRngUniformIntDevice[float32], testRngUniformIntDevice[float64])
}

func testRngGaussianPlusGaussianDevice[T device.Float](t *testing.T) {
	f := newFixture[T](t)
	const sigma = 1

	require.NoError(t, SampleGaussianDevice(f.ctx, sampleSize, T(-3), sigma, mutableDevice(t, f.data)))
	require.NoError(t, SampleGaussianDevice(f.ctx, sampleSize, T(-2), sigma, mutableDevice(t, f.data2)))

	d1 := mutableHost[T](t, f.data)
	d2 := host[T](t, f.data2)
	for i := range d1 {
		d1[i] += d2[i]
	}

	gaussianChecks(t, T(-5), T(math.Sqrt(2*sigma*sigma)), d1)
}

func TestRngGaussianPlusGaussianDevice(t *testing.T) {
	forEachFloat(t, testRngGaussianPlusGaussianDevice[float32], testRngGaussianPlusGaussianDevice[float64])
}

func testRngUniformPlusUniformDevice[T device.Float](t *testing.T) {
	f := newFixture[T](t)

	require.NoError(t, SampleUniformDevice(f.ctx, sampleSize, T(-4), T(-2), mutableDevice(t, f.data)))
	require.NoError(t, SampleUniformDevice(f.ctx, sampleSize, T(-3), T(-1), mutableDevice(t, f.data2)))

	d1 := mutableHost[T](t, f.data)
	d2 := host[T](t, f.data2)
	for i := range d1 {
		d1[i] += d2[i]
	}

	uniformChecks(t, T(-7), T(-3), d1)
}

func TestRngUniformPlusUniformDevice(t *testing.T) {
	forEachFloat(t, testRngUniformPlusUniformDevice[float32], testRngUniformPlusUniformDevice[float64])
}

// The concrete parity scenario: seed 1701, n 10000, N(0, 1) on both backends.
func TestRngGaussian_BackendParity(t *testing.T) {
	f := newFixture[float32](t)
	bound := meanBoundMultiplier / math.Sqrt(sampleSize)

	hostData := mutableHost[float32](t, f.data)
	require.NoError(t, SampleGaussian(f.ctx, sampleSize, float32(0), 1, hostData))
	assert.Less(t, math.Abs(sampleMean(t, hostData)), bound)

	require.NoError(t, SampleGaussianDevice(f.ctx, sampleSize, float32(0), 1, mutableDevice(t, f.data2)))
	devData := host[float32](t, f.data2)
	assert.Less(t, math.Abs(sampleMean(t, devData)), bound)

	assert.NotEqual(t, hostData, devData, "host and device engines are independent")
}

func TestRngDevice_NoDevice(t *testing.T) {
	ctx := New(nil, WithSeed(testSeed))

	err := SampleGaussianDevice(ctx, 4, float32(0), 1, device.Ptr{})
	assert.ErrorIs(t, err, device.ErrNoDevice)
	assert.True(t, fault.IsResource(err))

	err = SampleUniformDevice(ctx, 4, 0.0, 1.0, device.Ptr{})
	assert.True(t, fault.IsResource(err))

	err = SampleUniformBitsDevice(ctx, 4, device.Ptr{})
	assert.True(t, fault.IsResource(err))
}

func TestRngDevice_ContractViolations(t *testing.T) {
	f := newFixture[float32](t)
	small, err := syncedmem.New(8, f.dev)
	require.NoError(t, err)
	defer small.Release()
	p := mutableDevice(t, small)

	tests := []struct {
		name string
		call func() error
	}{
		{"pointer too small", func() error { return SampleGaussianDevice(f.ctx, 3, float32(0), 1, p) }},
		{"float64 overflows", func() error { return SampleUniformDevice(f.ctx, 2, 0.0, 1.0, p) }},
		{"bits overflow", func() error { return SampleUniformBitsDevice(f.ctx, 3, p) }},
		{"upper < lower", func() error { return SampleUniformDevice(f.ctx, 1, float32(1), 0, p) }},
		{"negative sigma", func() error { return SampleGaussianDevice(f.ctx, 1, float32(0), -1, p) }},
		{"nil pointer", func() error { return SampleUniformBitsDevice(f.ctx, 1, device.Ptr{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), fault.ErrContractViolation)
		})
	}

	gen, err := f.ctx.generator("test")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), gen.Offset(), "rejected calls must not consume the device stream")
}

func TestRngDevice_ZeroCount(t *testing.T) {
	f := newFixture[float32](t)
	require.NoError(t, SampleUniformBitsDevice(f.ctx, 0, device.Ptr{}))
	require.NoError(t, SampleGaussianDevice(f.ctx, 0, float32(0), 1, mutableDevice(t, f.data)))
}
