package md2thumb

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// GeneratorPool manages Generators for parallel processing.
// Generators are created lazily on first acquire and share one name
// registry, so the collision policy holds across the whole batch.
type GeneratorPool struct {
	size    int
	opts    []Option
	gens    []*Generator
	sem     chan *Generator
	mu      sync.Mutex
	created int
	closed  bool
}

// NewGeneratorPool creates a pool with capacity for n Generators built
// with opts. Generators are created when acquired, not at pool creation.
func NewGeneratorPool(n int, opts ...Option) *GeneratorPool {
	if n < 1 {
		n = 1
	}

	shared := append([]Option{WithNameRegistry(NewNameRegistry())}, opts...)

	return &GeneratorPool{
		size: n,
		opts: shared,
		gens: make([]*Generator, 0, n),
		sem:  make(chan *Generator, n),
	}
}

// Acquire gets a Generator from the pool, creating one if needed.
// Blocks while all Generators are in use, until one is released or ctx is done.
func (p *GeneratorPool) Acquire(ctx context.Context) (*Generator, error) {
	select {
	case g, ok := <-p.sem:
		return p.checkOut(g, ok)
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		g, err := NewGenerator(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.gens = append(p.gens, g)
		p.mu.Unlock()

		return g, nil
	}
	p.mu.Unlock()

	select {
	case g, ok := <-p.sem:
		return p.checkOut(g, ok)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// checkOut hands out a Generator received from the channel. Generators still
// buffered when the pool closes are already closed and never handed out.
func (p *GeneratorPool) checkOut(g *Generator, ok bool) (*Generator, error) {
	if !ok {
		return nil, ErrPoolClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	return g, nil
}

// Release returns a Generator to the pool. Releasing after Close is a no-op.
// The channel holds every created Generator, so the send never blocks.
func (p *GeneratorPool) Release(g *Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || g == nil {
		return
	}
	p.sem <- g
}

// Close releases all browser resources.
// Returns an aggregated error if multiple Generators fail to close.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	for range p.sem {
	}
	gens := p.gens
	p.mu.Unlock()

	var errs []error
	for _, g := range gens {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
