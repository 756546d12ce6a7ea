package md2thumb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2thumb/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestBuiltinRenderer - In-process rendering
// ---------------------------------------------------------------------------

func TestBuiltinRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := NewBuiltinRenderer()
	if err != nil {
		t.Fatalf("NewBuiltinRenderer() error = %v", err)
	}

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "md-1.md")
	htmlPath := filepath.Join(dir, "output-1.html")
	if err := pipeline.WriteDeck(mdPath, "テスト", pipeline.DefaultDeckMeta()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("embedded theme fallback", func(t *testing.T) {
		if err := r.Render(context.Background(), mdPath, filepath.Join(dir, "theme", "custom.css"), htmlPath); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		page, err := os.ReadFile(htmlPath)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if !strings.Contains(string(page), "テスト</h1>") {
			t.Error("output missing title heading")
		}
		if !strings.Contains(string(page), "@theme custom") {
			t.Error("output missing embedded theme")
		}
	})

	t.Run("theme file on disk", func(t *testing.T) {
		themeDir := filepath.Join(dir, "theme")
		if err := os.MkdirAll(themeDir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		themePath := filepath.Join(themeDir, "custom.css")
		if err := os.WriteFile(themePath, []byte("/* @theme custom */ section{background:#123456}"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		if err := r.Render(context.Background(), mdPath, themePath, htmlPath); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		page, err := os.ReadFile(htmlPath)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if !strings.Contains(string(page), "#123456") {
			t.Error("output missing theme from disk")
		}
	})
}

func TestBuiltinRenderer_Errors(t *testing.T) {
	t.Parallel()

	r, err := NewBuiltinRenderer()
	if err != nil {
		t.Fatalf("NewBuiltinRenderer() error = %v", err)
	}
	dir := t.TempDir()

	t.Run("missing markdown", func(t *testing.T) {
		t.Parallel()

		err := r.Render(context.Background(), filepath.Join(dir, "none.md"), "", filepath.Join(dir, "o.html"))
		if !errors.Is(err, ErrRender) {
			t.Errorf("Render() error = %v, want ErrRender", err)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		t.Parallel()

		mdPath := filepath.Join(dir, "deck.md")
		if err := pipeline.WriteDeck(mdPath, "x", pipeline.DefaultDeckMeta()); err != nil {
			t.Fatalf("setup: %v", err)
		}
		err := r.Render(context.Background(), mdPath, filepath.Join(dir, "nothing.css"), filepath.Join(dir, "o2.html"))
		if !errors.Is(err, ErrRender) {
			t.Errorf("Render() error = %v, want ErrRender", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := r.Render(ctx, "a.md", "", "a.html"); !errors.Is(err, context.Canceled) {
			t.Errorf("Render() error = %v, want context.Canceled", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarpRenderer - External CLI invocation
// ---------------------------------------------------------------------------

// mockRunner records the command and returns canned output.
type mockRunner struct {
	name      string
	args      []string
	themeSeen bool
	stderr    string
	err       error
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	m.name = name
	m.args = args
	for i, a := range args {
		if a == "--theme" && i+1 < len(args) {
			_, statErr := os.Stat(args[i+1])
			m.themeSeen = statErr == nil
		}
	}
	return "", m.stderr, m.err
}

func TestMarpRenderer_Args(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(themePath, []byte("/* @theme custom */"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	runner := &mockRunner{}
	r := &MarpRenderer{Runner: runner, Bin: "marp"}

	if err := r.Render(context.Background(), "articles/md-1.md", themePath, "temp/output-1.html"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if runner.name != "marp" {
		t.Errorf("command = %q, want marp", runner.name)
	}
	abs, _ := filepath.Abs(themePath)
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = abs
	}
	want := []string{"articles/md-1.md", "--html", "--theme", resolved, "--output", "temp/output-1.html"}
	if strings.Join(runner.args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %q, want %q", runner.args, want)
	}
}

func TestMarpRenderer_EmbeddedThemeMaterialized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &mockRunner{}
	r := &MarpRenderer{Runner: runner, Bin: "marp"}

	htmlPath := filepath.Join(dir, "output-1.html")
	if err := r.Render(context.Background(), "md.md", filepath.Join(dir, "theme", "custom.css"), htmlPath); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !runner.themeSeen {
		t.Error("theme file did not exist while marp ran")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("materialized theme not removed: %v", entries)
	}
}

func TestMarpRenderer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runner   *mockRunner
		wantErr  error
		contains string
	}{
		{
			name:    "not installed",
			runner:  &mockRunner{err: fmt.Errorf("starting command: %w", &exec.Error{Name: "marp", Err: exec.ErrNotFound})},
			wantErr: ErrMarpNotFound,
		},
		{
			name:     "stderr included",
			runner:   &mockRunner{err: errBoom, stderr: "[ERROR] theme not found\n"},
			wantErr:  ErrRender,
			contains: "[ERROR] theme not found",
		},
		{
			name:    "no stderr",
			runner:  &mockRunner{err: errBoom},
			wantErr: ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &MarpRenderer{Runner: tt.runner, Bin: "marp"}
			err := r.Render(context.Background(), "md.md", "", filepath.Join(t.TempDir(), "o.html"))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}

func TestNewMarpRenderer_DefaultBin(t *testing.T) {
	t.Parallel()

	if r := NewMarpRenderer(""); r.Bin != "marp" {
		t.Errorf("Bin = %q, want marp", r.Bin)
	}
	if r := NewMarpRenderer("/opt/marp"); r.Bin != "/opt/marp" {
		t.Errorf("Bin = %q, want /opt/marp", r.Bin)
	}
}
