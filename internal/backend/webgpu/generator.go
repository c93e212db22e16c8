//go:build windows

package webgpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"github.com/born-ml/syncmem/internal/random/philox"
	"github.com/go-webgpu/webgpu/wgpu"
)

// Kernel modes understood by philoxShader.
const (
	modeBits uint32 = iota
	modeUniform
	modeNormal
)

const (
	workgroupSize = 256
	maxWorkgroups = 65535

	// paramsSize is the uniform struct size rounded to 16 bytes.
	paramsSize = 48
)

// generator runs Philox4x32-10 kernels on the GPU.
// Layout matches philox.Stream so the emulated device and WebGPU agree on
// which counter produced which element.
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
	return g.run("Uniform32", dst, n, modeBits, 0, 0)
}

func (g *generator) Uniform(dst device.Ptr, n int, dt device.DataType, lower, upper float64) error {
	if err := checkFloat32("Uniform", dt); err != nil {
		return err
	}
	return g.run("Uniform", dst, n, modeUniform, float32(lower), float32(upper))
}

func (g *generator) Normal(dst device.Ptr, n int, dt device.DataType, mu, sigma float64) error {
	if err := checkFloat32("Normal", dt); err != nil {
		return err
	}
	return g.run("Normal", dst, n, modeNormal, float32(mu), float32(sigma))
}

func checkFloat32(op string, dt device.DataType) error {
	switch dt {
	case device.Float32:
		return nil
	case device.Float64:
		return fault.Resource(op, ErrFloat64Unsupported)
	default:
		return fault.Contract(op, "unsupported data type %s", dt)
	}
}

// run dispatches the Philox kernel over every block n elements consume.
// Dispatches larger than maxWorkgroups are split; each split carries its
// own base block so the stream does not depend on the split.
func (g *generator) run(op string, dst device.Ptr, n int, mode uint32, a, b float32) error {
	buf, err := g.dev.lookup(op, dst, n*4)
	if err != nil {
		return err
	}
	blocks := philox.Blocks(n, 4)
	if blocks == 0 {
		return nil
	}

	d := g.dev
	shader := d.compileShader("philox", philoxShader)
	pipeline := d.getOrCreatePipeline("philox", shader)
	layout := pipeline.GetBindGroupLayout(0)

	encoder := d.device.CreateCommandEncoder(nil)
	var release []func()
	defer func() {
		for _, f := range release {
			f()
		}
	}()

	const perDispatch = maxWorkgroups * workgroupSize
	for base := 0; base < blocks; base += perDispatch {
		count := min(blocks-base, perDispatch)

		params := d.createUniformBuffer(g.params(n, mode, base, a, b))
		bindGroup := d.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
			wgpu.BufferBindingEntry(0, buf.buffer, 0, buf.capacity),
			wgpu.BufferBindingEntry(1, params, 0, paramsSize),
		})
		release = append(release, params.Release, bindGroup.Release)

		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		//nolint:gosec // G115: workgroup count is bounded by maxWorkgroups
		pass.DispatchWorkgroups(uint32((count+workgroupSize-1)/workgroupSize), 1, 1)
		pass.End()
	}
	d.queue.Submit(encoder.Finish(nil))

	//nolint:gosec // G115: block count is non-negative
	g.offset += uint64(blocks)

	d.mu.Lock()
	d.stats.Kernels++
	d.mu.Unlock()
	return nil
}

// params encodes the Params struct of philoxShader.
func (g *generator) params(n int, mode uint32, base int, a, b float32) []byte {
	p := make([]byte, paramsSize)
	//nolint:gosec // G115: n and base are bounded by the buffer size
	binary.LittleEndian.PutUint32(p[0:4], uint32(n))
	binary.LittleEndian.PutUint32(p[4:8], mode)
	binary.LittleEndian.PutUint32(p[8:12], g.key[0])
	binary.LittleEndian.PutUint32(p[12:16], g.key[1])
	binary.LittleEndian.PutUint32(p[16:20], uint32(g.offset))
	binary.LittleEndian.PutUint32(p[20:24], uint32(g.offset>>32))
	//nolint:gosec // G115: see above
	binary.LittleEndian.PutUint32(p[24:28], uint32(base))
	if mode == modeUniform && math.IsInf(float64(b-a), 0) {
		binary.LittleEndian.PutUint32(p[28:32], 1)
	}
	binary.LittleEndian.PutUint32(p[32:36], math.Float32bits(a))
	binary.LittleEndian.PutUint32(p[36:40], math.Float32bits(b))
	return p
}

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Device's shaders map.
func (d *Device) compileShader(name, code string) *wgpu.ShaderModule {
	d.mu.Lock()
	defer d.mu.Unlock()

	if shader, exists := d.shaders[name]; exists {
		return shader
	}
	shader := d.device.CreateShaderModuleWGSL(code)
	d.shaders[name] = shader
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (d *Device) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pipeline, exists := d.pipelines[name]; exists {
		return pipeline
	}
	// Auto layout (nil layout)
	pipeline := d.device.CreateComputePipelineSimple(nil, shader, "main")
	d.pipelines[name] = pipeline
	return pipeline
}

// createUniformBuffer creates a uniform buffer with proper alignment.
// Uniform buffers require 16-byte alignment for struct fields.
func (d *Device) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}
