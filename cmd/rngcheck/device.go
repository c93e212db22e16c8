package main

import (
	"fmt"

	"github.com/born-ml/syncmem/backend/emulated"
	"github.com/born-ml/syncmem/backend/webgpu"
	"github.com/born-ml/syncmem/device"
)

// openDevice creates the configured device. It returns a nil device for
// "none"; samplers then run on the host.
func openDevice(cfg Config) (device.Device, func(), error) {
	switch cfg.Device {
	case "emulated":
		opts := []emulated.Option{}
		if cfg.Workers > 0 {
			opts = append(opts, emulated.WithWorkers(cfg.Workers))
		}
		dev := emulated.New(opts...)
		return dev, dev.Release, nil
	case "webgpu":
		gpu, err := webgpu.New()
		if err != nil {
			return nil, nil, fmt.Errorf("open webgpu: %w", err)
		}
		return gpu, gpu.Release, nil
	default:
		return nil, func() {}, nil
	}
}
