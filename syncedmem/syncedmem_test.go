// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package syncedmem_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/syncmem/backend/emulated"
	"github.com/born-ml/syncmem/device"
	"github.com/born-ml/syncmem/random"
	"github.com/born-ml/syncmem/syncedmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceFillThenHostRead(t *testing.T) {
	dev := emulated.New(emulated.WithWorkers(4))
	defer dev.Release()

	ctx := random.New(dev, random.WithSeed(1701))
	defer ctx.Release()

	const n = 10000
	buf, err := syncedmem.New(n*4, dev)
	require.NoError(t, err)
	defer buf.Release()

	ptr, err := buf.MutableDeviceData()
	require.NoError(t, err)
	require.NoError(t, random.SampleGaussianDevice(ctx, n, float32(0), 1, ptr))
	assert.Equal(t, syncedmem.HeadAtDevice, buf.State())

	xs, err := syncedmem.Host[float32](buf)
	require.NoError(t, err)
	assert.Equal(t, syncedmem.Synced, buf.State())
	assert.Equal(t, uint64(1), dev.Stats().DeviceToHost)

	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	assert.Less(t, math.Abs(sum/n), 3.8/math.Sqrt(n))

	// A second read does not copy again.
	_, err = syncedmem.Host[float32](buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), dev.Stats().DeviceToHost)
}

func TestHostOnlyBuffer(t *testing.T) {
	buf, err := syncedmem.New(16, nil)
	require.NoError(t, err)

	ints, err := syncedmem.MutableHost[int32](buf)
	require.NoError(t, err)
	assert.Len(t, ints, 4)

	_, err = buf.DeviceData()
	assert.True(t, errors.Is(err, device.ErrNoDevice))
	assert.True(t, device.IsResource(err))
}

func TestMemoryLimit(t *testing.T) {
	dev := emulated.New(emulated.WithMemoryLimit(64))
	defer dev.Release()

	buf, err := syncedmem.New(128, dev)
	require.NoError(t, err)

	_, err = buf.MutableDeviceData()
	assert.True(t, errors.Is(err, emulated.ErrOutOfMemory))
	assert.True(t, device.IsResource(err))
	assert.Equal(t, syncedmem.Uninitialized, buf.State())
}
