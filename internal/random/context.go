// Package random provides seed-reproducible Gaussian, uniform and Bernoulli
// sampling on the host and on the device.
//
// A Context owns one host engine (MT19937) and one device generator
// (Philox4x32-10). Every sampling call takes the Context explicitly; there
// is no hidden global state. For a fixed seed and a fixed sequence of calls
// the host stream is exactly reproducible; the device stream is
// reproducible on any backend implementing the shared Philox layout.
//
// A Context is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"os"
	"time"

	"github.com/born-ml/syncmem/internal/device"
	"github.com/born-ml/syncmem/internal/fault"
	"gonum.org/v1/gonum/mathext/prng"
)

// Context is the random stream controller.
type Context struct {
	dev device.Device

	seed     uint32
	seeded   bool // seed is valid (explicit or drawn from entropy)
	explicit bool // seed came from SetSeed / WithSeed

	host *prng.MT19937
	gen  device.Generator
}

// Option configures a Context.
type Option func(*Context)

// WithSeed seeds the context deterministically.
func WithSeed(seed uint32) Option {
	return func(c *Context) { c.SetSeed(seed) }
}

// New creates a Context bound to dev. dev may be nil, in which case only host
// sampling is available. Without WithSeed the engines are seeded from OS
// entropy the first time they are used.
func New(dev device.Device, opts ...Option) *Context {
	c := &Context{dev: dev}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSeed reinitializes both engines. Subsequent draws depend only on seed
// and on the sequence of sampling calls.
func (c *Context) SetSeed(seed uint32) {
	c.seed = seed
	c.seeded = true
	c.explicit = true

	if c.host != nil {
		c.host.Seed(uint64(seed))
	}
	if c.gen != nil {
		c.gen.SetSeed(uint64(seed))
	}
}

// Seed returns the current seed and whether it was set explicitly.
// Before first use of an unseeded context it returns (0, false).
func (c *Context) Seed() (uint32, bool) {
	return c.seed, c.explicit
}

// Device returns the device the context samples on, or nil.
func (c *Context) Device() device.Device {
	return c.dev
}

// Release frees the device generator.
func (c *Context) Release() {
	if c.gen != nil {
		c.gen.Release()
		c.gen = nil
	}
}

// hostEngine returns the host engine, creating it on first use.
func (c *Context) hostEngine() *prng.MT19937 {
	if c.host == nil {
		c.ensureSeed()
		c.host = prng.NewMT19937()
		c.host.Seed(uint64(c.seed))
	}
	return c.host
}

// generator returns the device generator, creating it on first use.
func (c *Context) generator(op string) (device.Generator, error) {
	if c.dev == nil {
		return nil, fault.Resource(op, device.ErrNoDevice)
	}
	if c.gen == nil {
		c.ensureSeed()
		gen, err := c.dev.NewGenerator(uint64(c.seed))
		if err != nil {
			return nil, fault.Resource(op, err)
		}
		c.gen = gen
	}
	return c.gen, nil
}

func (c *Context) ensureSeed() {
	if !c.seeded {
		c.seed = entropySeed()
		c.seeded = true
	}
}

// entropySeed draws a seed from the operating system, falling back to a
// mix of pid and clock when the system source fails.
func entropySeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint32(b[:])
	}
	pid := uint64(os.Getpid())
	//nolint:gosec // G115: truncation is the point
	return uint32((pid*181)*((pid-83)*359)) ^ uint32(time.Now().UnixNano())
}
