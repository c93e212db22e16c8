// Package pool recycles device allocations by size category.
package pool

import "sync"

// SizeClass represents different allocation size categories for pooling.
type SizeClass int

const (
	// Small for allocations < 4KB.
	Small SizeClass = iota
	// Medium for allocations 4KB-1MB.
	Medium
	// Large for allocations > 1MB.
	Large
)

const (
	// Size thresholds for categories.
	smallThreshold  = 4 * 1024    // 4KB
	mediumThreshold = 1024 * 1024 // 1MB
	// MaxPerClass is the maximum number of idle allocations kept per category.
	MaxPerClass = 100
)

// pooled wraps an idle allocation with its capacity.
type pooled[B any] struct {
	block    B
	capacity uint64
}

// Stats reports pool usage.
type Stats struct {
	Allocated uint64 // Allocations created by the pool
	Released  uint64 // Allocations returned to the pool
	Hits      uint64 // Acquires served from idle allocations
	Misses    uint64 // Acquires that created a new allocation
	Idle      int    // Allocations currently idle in the pool
}

// Pool manages allocation reuse to reduce device allocation overhead.
// It is safe for concurrent use.
type Pool[B any] struct {
	create  func(size uint64) (B, error)
	destroy func(B)

	small  []pooled[B]
	medium []pooled[B]
	large  []pooled[B]

	mu    sync.Mutex
	stats Stats
}

// New creates a pool. create allocates a block of exactly size bytes,
// destroy frees a block the pool no longer keeps.
func New[B any](create func(size uint64) (B, error), destroy func(B)) *Pool[B] {
	return &Pool[B]{
		create:  create,
		destroy: destroy,
		small:   make([]pooled[B], 0, MaxPerClass),
		medium:  make([]pooled[B], 0, MaxPerClass),
		large:   make([]pooled[B], 0, MaxPerClass),
	}
}

// Acquire returns an idle block of at least size bytes, or creates one.
// The second result is the block capacity to pass back to Release.
// reused reports whether the block came from the pool (its contents are
// then stale).
func (p *Pool[B]) Acquire(size uint64) (block B, capacity uint64, reused bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := Classify(size)
	idle := p.list(class)

	for i, pb := range *idle {
		if pb.capacity >= size {
			*idle = append((*idle)[:i], (*idle)[i+1:]...)
			p.stats.Hits++
			return pb.block, pb.capacity, true, nil
		}
	}

	p.stats.Misses++
	block, err = p.create(size)
	if err != nil {
		return block, 0, false, err
	}
	p.stats.Allocated++
	return block, size, false, nil
}

// Release returns a block to the pool. If its category is full, the block
// is destroyed immediately.
func (p *Pool[B]) Release(block B, capacity uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Released++

	idle := p.list(Classify(capacity))
	if len(*idle) >= MaxPerClass {
		p.destroy(block)
		return
	}
	*idle = append(*idle, pooled[B]{block: block, capacity: capacity})
}

// Clear destroys every idle block.
func (p *Pool[B]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, class := range []SizeClass{Small, Medium, Large} {
		idle := p.list(class)
		for _, pb := range *idle {
			p.destroy(pb.block)
		}
		*idle = (*idle)[:0]
	}
}

// Stats returns a snapshot of pool usage.
func (p *Pool[B]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	s.Idle = len(p.small) + len(p.medium) + len(p.large)
	return s
}

// Classify determines the size category of an allocation.
func Classify(size uint64) SizeClass {
	if size < smallThreshold {
		return Small
	}
	if size < mediumThreshold {
		return Medium
	}
	return Large
}

func (p *Pool[B]) list(class SizeClass) *[]pooled[B] {
	switch class {
	case Small:
		return &p.small
	case Medium:
		return &p.medium
	default:
		return &p.large
	}
}
