package md2thumb

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Generator, error)
	Release(*Generator)
	Size() int
	Close() error
} = (*GeneratorPool)(nil)

func fakePoolOptions(t *testing.T) []Option {
	t.Helper()

	return []Option{
		WithDirs(testDirs(t)),
		WithRenderer(&fakeRenderer{}),
		WithCapturer(&fakeCapturer{}),
		WithTransliterator(&mapTransliterator{}),
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewGeneratorPool_MinimumSize(t *testing.T) {
	t.Parallel()

	if got := NewGeneratorPool(0).Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestGeneratorPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewGeneratorPool(2, fakePoolOptions(t)...)
	defer func() { _ = pool.Close() }()

	g1, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	g2, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if g1 == g2 {
		t.Error("pool returned the same generator twice")
	}
	if g1.names != g2.names {
		t.Error("pooled generators do not share a name registry")
	}

	pool.Release(g1)
	g3, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if g3 != g1 {
		t.Error("released generator was not reused")
	}
}

func TestGeneratorPool_AcquireBlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	pool := NewGeneratorPool(1, fakePoolOptions(t)...)
	defer func() { _ = pool.Close() }()

	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestGeneratorPool_Close(t *testing.T) {
	t.Parallel()

	cp := &fakeCapturer{}
	opts := append(fakePoolOptions(t), WithCapturer(cp))
	pool := NewGeneratorPool(1, opts...)

	g, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(g)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !cp.closed {
		t.Error("generator capturer not closed")
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}

	// Release after Close is a no-op.
	pool.Release(g)
}

func TestGeneratorPool_CloseWithIdleGenerators(t *testing.T) {
	t.Parallel()

	pool := NewGeneratorPool(2, fakePoolOptions(t)...)

	var gens []*Generator
	for range 2 {
		g, err := pool.Acquire(context.Background())
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		gens = append(gens, g)
	}
	for _, g := range gens {
		pool.Release(g)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Both generators sat in the pool when it closed; neither may be handed out.
	for i := range 3 {
		g, err := pool.Acquire(context.Background())
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() #%d after Close = (%v, %v), want ErrPoolClosed", i+1, g, err)
		}
	}
}

func TestGeneratorPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	pool := NewGeneratorPool(1, append(fakePoolOptions(t), WithOutputWidth(-1))...)
	defer func() { _ = pool.Close() }()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("Acquire() error = %v, want ErrInvalidOption", err)
	}
	// The failed slot is returned, so the next attempt fails the same way.
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("second Acquire() error = %v, want ErrInvalidOption", err)
	}
}
