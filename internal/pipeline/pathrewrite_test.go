package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		path string
		want string
	}{
		{"/tmp/output-1.html", "file:///tmp/output-1.html"},
		{"/tmp/with space.html", "file:///tmp/with%20space.html"},
		{"/tmp/日本.html", "file:///tmp/%E6%97%A5%E6%9C%AC.html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FileURL(tt.path)
			if err != nil {
				t.Fatalf("FileURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FileURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileURL_Relative(t *testing.T) {
	t.Parallel()

	got, err := FileURL("temp/output.html")
	if err != nil {
		t.Fatalf("FileURL() error = %v", err)
	}
	if !strings.HasPrefix(got, "file:///") || !strings.HasSuffix(got, "/temp/output.html") {
		t.Errorf("FileURL(relative) = %q", got)
	}
}

func TestRewriteSlideAssets(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	dir := t.TempDir()
	dirURL, err := FileURL(dir)
	if err != nil {
		t.Fatalf("FileURL() error = %v", err)
	}

	tests := []struct {
		name     string
		fragment string
		contains string
	}{
		{"relative image", `<p><img src="img/logo.png" alt="x"/></p>`, `src="` + dirURL + `/img/logo.png"`},
		{"encoded image", `<img src="my%20logo.png"/>`, `src="` + dirURL + `/my%20logo.png"`},
		{"video poster", `<video poster="p.png"></video>`, `poster="` + dirURL + `/p.png"`},
		{"http untouched", `<img src="https://example.com/a.png"/>`, `src="https://example.com/a.png"`},
		{"data untouched", `<img src="data:image/png;base64,AAAA"/>`, `src="data:image/png;base64,AAAA"`},
		{"absolute untouched", `<img src="/etc/a.png"/>`, `src="/etc/a.png"`},
		{"traversal untouched", `<img src="../../secret.png"/>`, `src="../../secret.png"`},
		{"links untouched", `<a href="other.md">x</a>`, `href="other.md"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteSlideAssets(tt.fragment, dir)
			if err != nil {
				t.Fatalf("RewriteSlideAssets() error = %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("RewriteSlideAssets() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestRewriteSlideAssets_NoSourceDir(t *testing.T) {
	t.Parallel()

	in := `<img src="a.png">`
	got, err := RewriteSlideAssets(in, "")
	if err != nil || got != in {
		t.Errorf("RewriteSlideAssets(empty dir) = %q, %v", got, err)
	}
}

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	base := filepath.FromSlash("/base/dir")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.FromSlash("/base/dir/a.png"), true},
		{base, true},
		{filepath.FromSlash("/base/dirx/a.png"), false},
		{filepath.FromSlash("/base/a.png"), false},
	}

	for _, tt := range tests {
		if got := isPathUnderDir(tt.path, base); got != tt.want {
			t.Errorf("isPathUnderDir(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
