// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package emulated provides an in-process device for synced buffers and
// device sampling.
//
// # Overview
//
// The emulated device keeps its own arena, separate from host memory:
//   - Device memory is addressed by opaque handles, never host pointers
//   - Allocations are recycled through a size-bucketed pool
//   - Host to device and device to host transfers are counted
//   - Philox4x32-10 kernels are split across goroutines
//
// Results are bit-identical regardless of the worker count.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/syncmem/backend/emulated"
//	    "github.com/born-ml/syncmem/random"
//	    "github.com/born-ml/syncmem/syncedmem"
//	)
//
//	func main() {
//	    dev := emulated.New(emulated.WithWorkers(4))
//	    defer dev.Release()
//
//	    ctx := random.New(dev, random.WithSeed(1701))
//	    buf, _ := syncedmem.New(10000*4, dev)
//	    ptr, _ := buf.MutableDeviceData()
//	    _ = random.SampleUniformBitsDevice(ctx, 10000, ptr)
//
//	    words, _ := syncedmem.Host[uint32](buf)
//	    fmt.Println(words[0], dev.Stats().DeviceToHost)
//	}
package emulated
