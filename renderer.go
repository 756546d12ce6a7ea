package md2thumb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2thumb/internal/assets"
	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/pipeline"
)

// Renderer turns a deck markdown file into a standalone HTML file.
type Renderer interface {
	Render(ctx context.Context, markdownPath, themePath, htmlPath string) error
}

// Compile-time interface checks.
var (
	_ Renderer = (*BuiltinRenderer)(nil)
	_ Renderer = (*MarpRenderer)(nil)
)

// BuiltinRenderer renders decks in-process with Goldmark and the embedded
// bespoke template. It needs no external tools.
type BuiltinRenderer struct {
	deck *pipeline.DeckRenderer
}

// NewBuiltinRenderer creates a BuiltinRenderer using the embedded deck template.
func NewBuiltinRenderer() (*BuiltinRenderer, error) {
	tmpl, err := assets.LoadTemplate(assets.DeckTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading deck template: %w", err)
	}
	deck, err := pipeline.NewDeckRenderer(tmpl, pipeline.NewGoldmarkConverter())
	if err != nil {
		return nil, err
	}
	return &BuiltinRenderer{deck: deck}, nil
}

// Render reads the deck, resolves the theme and writes the HTML page.
func (r *BuiltinRenderer) Render(ctx context.Context, markdownPath, themePath, htmlPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := os.ReadFile(markdownPath) // #nosec G304 -- scratch path created by the generator
	if err != nil {
		return fmt.Errorf("%w: reading deck: %v", ErrRender, err)
	}

	theme, err := assets.ResolveTheme(themePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	page, err := r.deck.Render(ctx, string(content), pipeline.DeckRenderOptions{
		ThemeCSS:  theme.CSS,
		SourceDir: filepath.Dir(markdownPath),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	if err := os.WriteFile(htmlPath, []byte(page), 0o600); err != nil {
		return fmt.Errorf("%w: writing HTML: %v", ErrRender, err)
	}
	return nil
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run starts name with args and collects its output. The process is killed
// when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// MarpRenderer renders decks with the external marp CLI.
type MarpRenderer struct {
	Runner CommandRunner
	// Bin is the marp executable name or path.
	Bin string
}

// NewMarpRenderer creates a MarpRenderer with a real command runner.
// An empty bin selects "marp" from PATH.
func NewMarpRenderer(bin string) *MarpRenderer {
	if bin == "" {
		bin = "marp"
	}
	return &MarpRenderer{Runner: &ExecRunner{}, Bin: bin}
}

// Render runs: marp <md> --html --theme <css> --output <html>.
// When the theme file does not exist, the embedded theme with the same
// name is written next to the HTML output for the duration of the call.
func (r *MarpRenderer) Render(ctx context.Context, markdownPath, themePath, htmlPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	themeFile, cleanup, err := materializeTheme(themePath, filepath.Dir(htmlPath))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer cleanup()

	_, stderr, err := r.Runner.Run(ctx, r.Bin, markdownPath, "--html", "--theme", themeFile, "--output", htmlPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrMarpNotFound, r.Bin)
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: marp: %v: %s", ErrRender, err, msg)
		}
		return fmt.Errorf("%w: marp: %v", ErrRender, err)
	}
	return nil
}

// materializeTheme returns a stylesheet path usable by an external tool.
// Existing theme files are returned as is; otherwise the resolved embedded
// theme is written into dir and removed by cleanup.
func materializeTheme(themePath, dir string) (path string, cleanup func(), err error) {
	noop := func() {}

	theme, err := assets.ResolveTheme(themePath)
	if err != nil {
		return "", noop, err
	}
	if theme.Path != "" {
		return theme.Path, noop, nil
	}

	path, err = fileutil.ScratchPath(dir, "theme", "css")
	if err != nil {
		return "", noop, err
	}
	if err := os.WriteFile(path, []byte(theme.CSS), 0o600); err != nil {
		return "", noop, fmt.Errorf("writing theme: %w", err)
	}
	return path, func() { fileutil.RemoveQuietly(path) }, nil
}
