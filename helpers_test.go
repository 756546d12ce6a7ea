package md2thumb

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// mapTransliterator returns fixed romaji per title and echoes unknown input.
type mapTransliterator struct {
	romaji map[string]string
	err    error
}

func (m *mapTransliterator) ToRomaji(_ context.Context, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if r, ok := m.romaji[text]; ok {
		return r, nil
	}
	return strings.ToLower(text), nil
}

// fakeRenderer writes a minimal HTML page and records the deck it saw.
type fakeRenderer struct {
	mu    sync.Mutex
	decks []string
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, markdownPath, _, htmlPath string) error {
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.decks = append(f.decks, string(content))
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	return os.WriteFile(htmlPath, []byte("<html><body>slide</body></html>"), 0o600)
}

// fakeCapturer writes a solid PNG of the given size.
type fakeCapturer struct {
	width, height int
	err           error
	closed        bool
}

func (f *fakeCapturer) Capture(_ context.Context, htmlPath, pngPath string) error {
	if _, err := os.Stat(htmlPath); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(pngPath), 0o750); err != nil {
		return err
	}
	w, h := f.width, f.height
	if w == 0 {
		w, h = 64, 36
	}
	return imaging.Save(imaging.New(w, h, color.White), pngPath)
}

func (f *fakeCapturer) Close() error {
	f.closed = true
	return nil
}

// testDirs creates the working directories under a temp root.
func testDirs(t *testing.T) Dirs {
	t.Helper()

	root := t.TempDir()
	d := Dirs{
		Articles:   filepath.Join(root, "articles"),
		Thumbnails: filepath.Join(root, "thumbnails"),
		Temp:       filepath.Join(root, "temp"),
	}
	for _, dir := range []string{d.Articles, d.Thumbnails, d.Temp} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return d
}

// newTestGenerator builds a Generator wired to fakes.
func newTestGenerator(t *testing.T, dirs Dirs, opts ...Option) *Generator {
	t.Helper()

	base := []Option{
		WithDirs(dirs),
		WithRenderer(&fakeRenderer{}),
		WithCapturer(&fakeCapturer{}),
		WithTransliterator(&mapTransliterator{}),
	}
	g, err := NewGenerator(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

// assertEmptyDir fails when dir contains any entry.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("%s not empty: %v", dir, names)
	}
}

var errBoom = errors.New("boom")
