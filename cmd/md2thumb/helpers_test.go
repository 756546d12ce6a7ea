package main

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	md2thumb "github.com/alnah/go-md2thumb"
	"github.com/alnah/go-md2thumb/internal/config"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

var errBrokenTitle = errors.New("no reading for title")

// mapTransliterator returns fixed romaji per title and fails for the rest.
type mapTransliterator map[string]string

func (m mapTransliterator) ToRomaji(_ context.Context, text string) (string, error) {
	if r, ok := m[text]; ok {
		return r, nil
	}
	return "", errBrokenTitle
}

// stubRenderer writes a placeholder page.
type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, markdownPath, _, htmlPath string) error {
	if _, err := os.Stat(markdownPath); err != nil {
		return err
	}
	return os.WriteFile(htmlPath, []byte("<html><body>slide</body></html>"), 0o600)
}

// stubCapturer writes a 64x36 white PNG.
type stubCapturer struct{}

func (stubCapturer) Capture(_ context.Context, _, pngPath string) error {
	if err := os.MkdirAll(filepath.Dir(pngPath), 0o750); err != nil {
		return err
	}
	return imaging.Save(imaging.New(64, 36, color.White), pngPath)
}

func (stubCapturer) Close() error { return nil }

// fakeWarmer records Init calls.
type fakeWarmer struct {
	err   error
	calls int
}

func (f *fakeWarmer) Init() error {
	f.calls++
	return f.err
}

// testTitles maps the titles used across tests to their romaji.
var testTitles = mapTransliterator{
	"東京タワー": "tokyotawa",
	"テスト":   "tesuto",
	"Go 入門":  "gonyumon",
	"doctor": "doctor",
}

// testEnv is an Environment wired to fakes with captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	warmer *fakeWarmer
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	warmer := &fakeWarmer{}
	fixed := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return fixed },
			Stdout: stdout,
			Stderr: stderr,
			Config: config.DefaultConfig(),
			Warmer: warmer,
			Options: []md2thumb.Option{
				md2thumb.WithRenderer(stubRenderer{}),
				md2thumb.WithCapturer(stubCapturer{}),
				md2thumb.WithTransliterator(testTitles),
			},
		},
		stdout: stdout,
		stderr: stderr,
		warmer: warmer,
	}
}

// assertEmptyDir fails if dir has any entries.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("unexpected entry %s in %s", e.Name(), dir)
	}
}
