package md2thumb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2thumb/internal/assets"
	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/pipeline"
	"github.com/alnah/go-md2thumb/internal/romaji"
)

// MaxScale caps the device scale factor.
const MaxScale = 4

// Generator turns titles into thumbnails.
// Create with NewGenerator, call Generate per title, and Close when done.
// A Generator may be used by one goroutine at a time; use GeneratorPool for
// parallel work.
type Generator struct {
	cfg            generatorConfig
	deck           pipeline.DeckMeta
	renderer       Renderer
	capturer       Capturer
	transliterator Transliterator
	names          *NameRegistry
}

// NewGenerator creates a Generator. Defaults: built-in renderer, go-rod
// capturer (one browser per title), shared kagome transliterator.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:            cfg,
		deck:           deckMeta(cfg.deck, cfg.themePath),
		renderer:       cfg.renderer,
		capturer:       cfg.capturer,
		transliterator: cfg.transliterator,
		names:          cfg.names,
	}

	if g.renderer == nil {
		r, err := NewBuiltinRenderer()
		if err != nil {
			return nil, err
		}
		g.renderer = r
	}
	if g.capturer == nil {
		g.capturer = newRodCapturer(cfg.viewport, cfg.timeout, cfg.hide, cfg.reuseBrowser)
	}
	if g.transliterator == nil {
		g.transliterator = romaji.Shared()
	}
	if g.names == nil {
		g.names = NewNameRegistry()
	}

	return g, nil
}

// validate checks option values.
func (c *generatorConfig) validate() error {
	v := c.viewport
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	if v.Scale <= 0 || v.Scale > MaxScale {
		return fmt.Errorf("%w: scale %v outside (0, %d]", ErrInvalidViewport, v.Scale, MaxScale)
	}
	if c.outputWidth < 0 {
		return fmt.Errorf("%w: output width %d", ErrInvalidOption, c.outputWidth)
	}
	switch c.collision {
	case CollisionOverwrite, CollisionError:
	default:
		return fmt.Errorf("%w: collision policy %q", ErrInvalidOption, c.collision)
	}
	if c.dirs.Articles == "" || c.dirs.Thumbnails == "" || c.dirs.Temp == "" {
		return fmt.Errorf("%w: empty working directory", ErrInvalidOption)
	}
	return nil
}

// deckMeta converts deck options to front matter directives. An empty theme
// name is taken from the stylesheet file name.
func deckMeta(d Deck, themePath string) pipeline.DeckMeta {
	meta := pipeline.DefaultDeckMeta()
	meta.Theme = d.Theme
	if meta.Theme == "" && themePath != "" {
		meta.Theme = strings.TrimSuffix(filepath.Base(themePath), ".css")
	}
	if meta.Theme == "" {
		meta.Theme = assets.DefaultThemeName
	}
	meta.Paginate = d.Paginate
	meta.Header = d.Header
	meta.Footer = d.Footer
	if d.Size != "" {
		meta.Size = pipeline.SlideSize(d.Size)
	}
	return meta
}

// Generate produces the thumbnail for one title.
//
// The title is written to a scratch deck under the articles directory,
// rendered to scratch HTML under the temp directory, captured, and saved
// as <thumbnails>/<name>.png. Scratch files are removed on every path.
// On failure the returned Result has Stage StageFailed and the error is a
// *StageError naming the stage that could not be reached.
func (g *Generator) Generate(ctx context.Context, title string) (*Result, error) {
	res := &Result{Title: title, Stage: StagePending}
	next := StagePending

	fail := func(err error) (*Result, error) {
		res.Stage = StageFailed
		return res, &StageError{Stage: next, Title: title, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if strings.TrimSpace(title) == "" {
		return fail(ErrEmptyTitle)
	}

	name, fallback, err := ThumbnailName(ctx, g.transliterator, title)
	if err != nil {
		return fail(err)
	}
	res.Name = name
	res.Fallback = fallback
	res.Path = filepath.Join(g.cfg.dirs.Thumbnails, name+".png")

	if g.cfg.collision == CollisionError {
		if err := g.names.Claim(res.Path, title); err != nil {
			return fail(err)
		}
		defer func() {
			if res.Stage == StageFailed {
				g.names.Release(res.Path)
			}
		}()
	}

	next = StageMarkdownWritten
	mdPath, err := fileutil.ScratchPath(g.cfg.dirs.Articles, "md", "md")
	if err != nil {
		return fail(err)
	}
	defer fileutil.RemoveQuietly(mdPath)

	if err := pipeline.WriteDeck(mdPath, title, g.deck); err != nil {
		return fail(err)
	}
	res.Stage = next

	next = StageRendered
	htmlPath, err := fileutil.ScratchPath(g.cfg.dirs.Temp, "output", "html")
	if err != nil {
		return fail(err)
	}
	defer fileutil.RemoveQuietly(htmlPath)

	if err := g.renderer.Render(ctx, mdPath, g.cfg.themePath, htmlPath); err != nil {
		return fail(err)
	}
	res.Stage = next

	next = StageCaptured
	if err := g.capturer.Capture(ctx, htmlPath, res.Path); err != nil {
		return fail(err)
	}
	res.Stage = next

	next = StageSaved
	if g.cfg.outputWidth > 0 {
		if err := resizeThumbnail(res.Path, g.cfg.outputWidth); err != nil {
			return fail(err)
		}
	} else if !fileutil.FileExists(res.Path) {
		return fail(fmt.Errorf("%w: %s missing after capture", ErrWriteThumbnail, res.Path))
	}
	res.Stage = next

	fileutil.RemoveQuietly(mdPath)
	fileutil.RemoveQuietly(htmlPath)
	res.Stage = StageCleanedUp
	return res, nil
}

// Close releases the capturer's browser resources.
func (g *Generator) Close() error {
	if g.capturer == nil {
		return nil
	}
	return g.capturer.Close()
}

// IsStage reports whether err is a *StageError for stage s.
func IsStage(err error, s Stage) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == s
}
