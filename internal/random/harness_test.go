package random

import (
	"math"
	"testing"

	"github.com/born-ml/syncmem/internal/backend/emulated"
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/syncedmem"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleSize          = 10000
	testSeed            = 1701
	meanBoundMultiplier = 3.8 // ~99.99% confidence for test failure.
)

// fixture mirrors the buffers every sampling test works on.
type fixture struct {
	ctx      *Context
	dev      *emulated.Device
	data     *syncedmem.Buffer
	data2    *syncedmem.Buffer
	intData  *syncedmem.Buffer
	intData2 *syncedmem.Buffer
}

func newFixture[T device.Float](t *testing.T) *fixture {
	t.Helper()
	dev := emulated.New()
	f := &fixture{
		ctx:      New(dev, WithSeed(testSeed)),
		dev:      dev,
		data:     newBuf(t, sampleSize*device.SizeOf[T](), dev),
		data2:    newBuf(t, sampleSize*device.SizeOf[T](), dev),
		intData:  newBuf(t, sampleSize*4, dev),
		intData2: newBuf(t, sampleSize*4, dev),
	}
	t.Cleanup(f.ctx.Release)
	return f
}

func newBuf(t *testing.T, size int, dev device.Device) *syncedmem.Buffer {
	t.Helper()
	b, err := syncedmem.New(size, dev)
	require.NoError(t, err)
	t.Cleanup(b.Release)
	return b
}

func mutableHost[T device.Numeric](t *testing.T, b *syncedmem.Buffer) []T {
	t.Helper()
	v, err := syncedmem.MutableHost[T](b)
	require.NoError(t, err)
	return v
}

func host[T device.Numeric](t *testing.T, b *syncedmem.Buffer) []T {
	t.Helper()
	v, err := syncedmem.Host[T](b)
	require.NoError(t, err)
	return v
}

func mutableDevice(t *testing.T, b *syncedmem.Buffer) device.Ptr {
	t.Helper()
	p, err := b.MutableDeviceData()
	require.NoError(t, err)
	return p
}

func meanBound(std float64, n int) float64 {
	return meanBoundMultiplier * std / math.Sqrt(float64(n))
}

func sampleMean[T device.Numeric](t *testing.T, seqs []T) float64 {
	t.Helper()
	data := make(stats.Float64Data, len(seqs))
	for i, v := range seqs {
		data[i] = float64(v)
	}
	mean, err := stats.Mean(data)
	require.NoError(t, err)
	return mean
}

func gaussianChecks[T device.Float](t *testing.T, mu, sigma T, data []T) {
	t.Helper()
	trueMean, trueStd := float64(mu), float64(sigma)

	// Sample mean roughly matches true mean.
	assert.InDelta(t, trueMean, sampleMean(t, data), meanBound(trueStd, len(data)))

	// Roughly half the samples are above the true mean.
	above, below := 0, 0
	for _, v := range data {
		if v > mu {
			above++
		} else if v < mu {
			below++
		}
	}
	assert.Equal(t, len(data), above+below, "no sample may equal the mean")

	const bernoulliP = 0.5
	pAbove := float64(above) / float64(len(data))
	assert.InDelta(t, bernoulliP, pAbove, meanBound(math.Sqrt(bernoulliP*(1-bernoulliP)), len(data)))
}

func uniformChecks[T device.Float](t *testing.T, lower, upper T, data []T) {
	t.Helper()
	trueMean := (float64(lower) + float64(upper)) / 2
	trueStd := (float64(upper) - float64(lower)) / math.Sqrt(12)

	assert.InDelta(t, trueMean, sampleMean(t, data), meanBound(trueStd, len(data)))

	above, below, aboveUpper, belowLower := 0, 0, 0, 0
	for _, v := range data {
		if float64(v) > trueMean {
			above++
		} else if float64(v) < trueMean {
			below++
		}
		if v > upper {
			aboveUpper++
		} else if v < lower {
			belowLower++
		}
	}
	assert.Zero(t, aboveUpper, "samples above upper")
	assert.Zero(t, belowLower, "samples below lower")
	assert.Equal(t, len(data), above+below)

	const bernoulliP = 0.5
	pAbove := float64(above) / float64(len(data))
	assert.InDelta(t, bernoulliP, pAbove, meanBound(math.Sqrt(bernoulliP*(1-bernoulliP)), len(data)))
}

func bernoulliChecks[I device.Integer](t *testing.T, p float64, data []I) {
	t.Helper()
	for i, v := range data {
		require.True(t, v == 0 || v == 1, "index %d holds %d", i, v)
	}
	assert.InDelta(t, p, sampleMean(t, data), meanBound(math.Sqrt(p*(1-p)), len(data)))
}

// signBalanceChecks verifies that the non-zero entries of a product with a
// Bernoulli mask are zero exactly where the mask is zero, and still split
// roughly evenly between positive and negative.
func signBalanceChecks[T device.Float](t *testing.T, product []T, mask []int32) {
	t.Helper()
	pos, neg := 0, 0
	for i, v := range product {
		if v == 0 {
			assert.Equal(t, int32(0), mask[i], "index %d", i)
			continue
		}
		assert.Equal(t, int32(1), mask[i], "index %d", i)
		if v > 0 {
			pos++
		} else {
			neg++
		}
	}

	nonZero := pos + neg
	require.Positive(t, nonZero)
	const p = 0.5
	sampleP := float64(pos) / float64(nonZero)
	assert.InDelta(t, p, sampleP, meanBound(math.Sqrt(p*(1-p)), nonZero))
}

// forEachFloat runs fn for float32 and float64.
func forEachFloat(t *testing.T, fn32 func(t *testing.T), fn64 func(t *testing.T)) {
	t.Run("float32", fn32)
	t.Run("float64", fn64)
}

// wideUniformChecks checks draws over a span wider than the float range.
// Samples are divided by upper first so their sum stays finite.
func wideUniformChecks[T device.Float](t *testing.T, lower, upper T, data []T) {
	t.Helper()
	scaled := make([]float64, len(data))
	nearUpper := 0
	for i, v := range data {
		require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "index %d: %v", i, v)
		require.GreaterOrEqual(t, v, lower, "index %d", i)
		require.Less(t, v, upper, "index %d", i)
		scaled[i] = float64(v) / float64(upper)
		if scaled[i] > 0.99 {
			nearUpper++
		}
	}

	// lower == -upper, so scaled draws follow U(-1, 1).
	assert.InDelta(t, 0, sampleMean(t, scaled), meanBound(1/math.Sqrt(3), len(data)))
	assert.Less(t, nearUpper, len(data)/50, "draws pile up at the upper edge")
}
