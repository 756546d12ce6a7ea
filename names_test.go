package md2thumb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFallbackName(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^title-[0-9a-f]{12}$`)

	a := FallbackName("？！")
	if !pattern.MatchString(a) {
		t.Errorf("FallbackName() = %q, want match %s", a, pattern)
	}
	if FallbackName("？！") != a {
		t.Error("FallbackName is not deterministic")
	}
	if FallbackName("！？") == a {
		t.Error("different titles share a fallback name")
	}
}

func TestThumbnailName(t *testing.T) {
	t.Parallel()

	tr := &mapTransliterator{romaji: map[string]string{
		"テスト":  "tesuto",
		"Go 入門": "Go nyuumon",
		"★":    "★",
	}}

	tests := []struct {
		title        string
		want         string
		wantFallback bool
	}{
		{"テスト", "tesuto", false},
		{"Go 入門", "gonyuumon", false},
		{"★", FallbackName("★"), true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()

			got, fallback, err := ThumbnailName(context.Background(), tr, tt.title)
			if err != nil {
				t.Fatalf("ThumbnailName() error = %v", err)
			}
			if got != tt.want || fallback != tt.wantFallback {
				t.Errorf("ThumbnailName(%q) = %q, %v; want %q, %v", tt.title, got, fallback, tt.want, tt.wantFallback)
			}
		})
	}
}

func TestThumbnailName_Error(t *testing.T) {
	t.Parallel()

	_, _, err := ThumbnailName(context.Background(), &mapTransliterator{err: errBoom}, "x")
	if !errors.Is(err, errBoom) {
		t.Errorf("ThumbnailName() error = %v, want errBoom", err)
	}
}

// ---------------------------------------------------------------------------
// TestNameRegistry - Collision tracking
// ---------------------------------------------------------------------------

func TestNameRegistry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewNameRegistry()
	path := filepath.Join(dir, "hashi.png")

	if err := r.Claim(path, "橋"); err != nil {
		t.Fatalf("first Claim() error = %v", err)
	}
	if err := r.Claim(path, "箸"); !errors.Is(err, ErrNameCollision) {
		t.Errorf("second Claim() error = %v, want ErrNameCollision", err)
	}

	r.Release(path)
	if err := r.Claim(path, "箸"); err != nil {
		t.Errorf("Claim() after Release error = %v", err)
	}

	existing := filepath.Join(dir, "old.png")
	if err := os.WriteFile(existing, []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := r.Claim(existing, "old"); !errors.Is(err, ErrNameCollision) {
		t.Errorf("Claim(existing) error = %v, want ErrNameCollision", err)
	}
}

func TestNameRegistry_ConcurrentClaims(t *testing.T) {
	t.Parallel()

	r := NewNameRegistry()
	path := filepath.Join(t.TempDir(), "same.png")

	const n = 32
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Claim(path, "t") == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("%d goroutines claimed the same path, want 1", got)
	}
}
