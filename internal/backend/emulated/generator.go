package emulated

import (
	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"github.com/born-ml/syncmem/internal/parallel"
	"github.com/born-ml/syncmem/internal/random/philox"
)

// generator runs Philox4x32-10 kernels against emulated device memory.
type generator struct {
	dev    *Device
	key    philox.Key
	offset uint64
}

func (g *generator) SetSeed(seed uint64) {
	g.key = philox.KeyFromSeed(seed)
	g.offset = 0
}

func (g *generator) Offset() uint64 {
	return g.offset
}

func (g *generator) Release() {}

func (g *generator) Uniform32(dst device.Ptr, n int) error {
	mem, err := g.dev.memory("Uniform32", dst, n*4)
	if err != nil {
		return err
	}
	out := view[uint32](mem, n)
	g.launch(philox.Blocks(n, 4), func(s philox.Stream, bs, be int) {
		s.FillUint32(out, bs, be)
	})
	return nil
}

func (g *generator) Uniform(dst device.Ptr, n int, dt device.DataType, lower, upper float64) error {
	mem, err := g.dev.memory("Uniform", dst, n*dt.Size())
	if err != nil {
		return err
	}

	switch dt {
	case device.Float32:
		out := view[float32](mem, n)
		lo, hi := float32(lower), float32(upper)
		g.launch(philox.Blocks(n, 4), func(s philox.Stream, bs, be int) {
			s.FillUniform32(out, lo, hi, bs, be)
		})
	case device.Float64:
		out := view[float64](mem, n)
		g.launch(philox.Blocks(n, 8), func(s philox.Stream, bs, be int) {
			s.FillUniform64(out, lower, upper, bs, be)
		})
	default:
		return fault.Contract("Uniform", "unsupported data type %s", dt)
	}
	return nil
}

func (g *generator) Normal(dst device.Ptr, n int, dt device.DataType, mu, sigma float64) error {
	mem, err := g.dev.memory("Normal", dst, n*dt.Size())
	if err != nil {
		return err
	}

	switch dt {
	case device.Float32:
		out := view[float32](mem, n)
		m, s32 := float32(mu), float32(sigma)
		g.launch(philox.Blocks(n, 4), func(s philox.Stream, bs, be int) {
			s.FillNormal32(out, m, s32, bs, be)
		})
	case device.Float64:
		out := view[float64](mem, n)
		g.launch(philox.Blocks(n, 8), func(s philox.Stream, bs, be int) {
			s.FillNormal64(out, mu, sigma, bs, be)
		})
	default:
		return fault.Contract("Normal", "unsupported data type %s", dt)
	}
	return nil
}

// launch runs kernel over blocks and advances the stream offset.
func (g *generator) launch(blocks int, kernel func(s philox.Stream, bs, be int)) {
	s := philox.Stream{Key: g.key, Offset: g.offset}
	parallel.ForChunks(blocks, func(bs, be int) {
		kernel(s, bs, be)
	}, g.dev.par)
	//nolint:gosec // G115: block count is non-negative
	g.offset += uint64(blocks)

	g.dev.mu.Lock()
	g.dev.stats.Kernels++
	g.dev.mu.Unlock()
}
