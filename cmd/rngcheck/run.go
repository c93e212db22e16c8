package main

import (
	"fmt"
	"io"
	"math"

	"github.com/born-ml/syncmem/device"
	"github.com/born-ml/syncmem/random"
	"github.com/born-ml/syncmem/syncedmem"
)

// boundK is the number of standard errors a sample mean may stray.
const boundK = 3.8

// run samples cfg.Samples values for cmd and writes a report to w.
// ok is false if a statistical check failed.
func run(w io.Writer, cmd string, cfg Config, dev device.Device) (ok bool, err error) {
	var opts []random.Option
	if cfg.Seed != 0 {
		opts = append(opts, random.WithSeed(cfg.Seed))
	}
	ctx := random.New(dev, opts...)
	defer ctx.Release()

	var r *report
	switch cmd {
	case "gaussian":
		r, err = runFloat(cfg, dev, ctx, gaussian)
	case "uniform":
		r, err = runFloat(cfg, dev, ctx, uniform)
	case "bernoulli":
		r, err = runBernoulli(cfg, dev, ctx)
	case "bits":
		r, err = runBits(cfg, dev, ctx)
	case "help", "-h", "--help":
		usage(w)
		return true, nil
	default:
		usage(w)
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return false, err
	}

	seed, _ := ctx.Seed()
	fmt.Fprintf(w, "%s on %s, seed %d\n", cmd, deviceName(dev), seed)
	r.print(w)
	return r.ok(), nil
}

func deviceName(dev device.Device) string {
	if dev == nil {
		return "host"
	}
	return dev.Name()
}

type distribution int

const (
	gaussian distribution = iota
	uniform
)

func runFloat(cfg Config, dev device.Device, ctx *random.Context, dist distribution) (*report, error) {
	if cfg.DType == "float64" {
		return sampleFloat[float64](cfg, dev, ctx, dist)
	}
	return sampleFloat[float32](cfg, dev, ctx, dist)
}

// sampleFloat fills a synced buffer on the device, or on the host when
// there is no device, and reads it back through the host view.
func sampleFloat[T device.Float](cfg Config, dev device.Device, ctx *random.Context, dist distribution) (*report, error) {
	n := cfg.Samples
	buf, err := syncedmem.New(n*device.SizeOf[T](), dev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	if dev != nil {
		ptr, err := buf.MutableDeviceData()
		if err != nil {
			return nil, err
		}
		if dist == gaussian {
			err = random.SampleGaussianDevice(ctx, n, T(cfg.Mu), T(cfg.Sigma), ptr)
		} else {
			err = random.SampleUniformDevice(ctx, n, T(cfg.Lower), T(cfg.Upper), ptr)
		}
		if err != nil {
			return nil, err
		}
	} else {
		out, err := syncedmem.MutableHost[T](buf)
		if err != nil {
			return nil, err
		}
		if dist == gaussian {
			err = random.SampleGaussian(ctx, n, T(cfg.Mu), T(cfg.Sigma), out)
		} else {
			err = random.SampleUniform(ctx, n, T(cfg.Lower), T(cfg.Upper), out)
		}
		if err != nil {
			return nil, err
		}
	}

	xs, err := syncedmem.Host[T](buf)
	if err != nil {
		return nil, err
	}
	r, err := summarize(toFloat64(xs))
	if err != nil {
		return nil, err
	}

	if dist == gaussian {
		r.expectMean(cfg.Mu, cfg.Sigma)
		return r, nil
	}
	r.expectMean((cfg.Lower+cfg.Upper)/2, (cfg.Upper-cfg.Lower)/math.Sqrt(12))
	r.expectRange(float64(T(cfg.Lower)), float64(T(cfg.Upper)))
	return r, nil
}

// runBernoulli samples on the host; there is no device Bernoulli kernel.
func runBernoulli(cfg Config, dev device.Device, ctx *random.Context) (*report, error) {
	n := cfg.Samples
	buf, err := syncedmem.New(n*4, dev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	out, err := syncedmem.MutableHost[int32](buf)
	if err != nil {
		return nil, err
	}
	if err := random.SampleBernoulli(ctx, n, cfg.P, out); err != nil {
		return nil, err
	}

	r, err := summarize(toFloat64(out))
	if err != nil {
		return nil, err
	}
	r.expectMean(cfg.P, math.Sqrt(cfg.P*(1-cfg.P)))
	r.expectRange(0, 1)
	return r, nil
}

// runBits samples raw uint32 words on the device.
func runBits(cfg Config, dev device.Device, ctx *random.Context) (*report, error) {
	n := cfg.Samples
	buf, err := syncedmem.New(n*4, dev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	ptr, err := buf.MutableDeviceData()
	if err != nil {
		return nil, err
	}
	if err := random.SampleUniformBitsDevice(ctx, n, ptr); err != nil {
		return nil, err
	}
	words, err := syncedmem.Host[uint32](buf)
	if err != nil {
		return nil, err
	}

	r, err := summarize(toFloat64(words))
	if err != nil {
		return nil, err
	}
	r.expectMean(math.MaxUint32/2.0, math.MaxUint32/math.Sqrt(12))
	return r, nil
}

func toFloat64[T device.Numeric](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
