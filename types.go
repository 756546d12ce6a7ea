package md2thumb

import (
	"context"
	"fmt"
	"time"
)

// Stage is a step of the per-title lifecycle.
type Stage int

// Lifecycle stages, in order. StageFailed is terminal.
const (
	StagePending Stage = iota
	StageMarkdownWritten
	StageRendered
	StageCaptured
	StageSaved
	StageCleanedUp
	StageFailed
)

var stageNames = [...]string{
	StagePending:         "pending",
	StageMarkdownWritten: "markdown-written",
	StageRendered:        "rendered",
	StageCaptured:        "captured",
	StageSaved:           "saved",
	StageCleanedUp:       "cleaned-up",
	StageFailed:          "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// action names the work done to reach s, for error messages.
func (s Stage) action() string {
	switch s {
	case StagePending:
		return "naming thumbnail"
	case StageMarkdownWritten:
		return "writing markdown"
	case StageRendered:
		return "rendering"
	case StageCaptured:
		return "capturing"
	case StageSaved:
		return "saving"
	default:
		return s.String()
	}
}

// Result describes one processed title.
type Result struct {
	// Title is the input title, unchanged.
	Title string
	// Name is the sanitized thumbnail name without extension.
	Name string
	// Path is the thumbnail file path.
	Path string
	// Fallback is true when Name was derived from a hash because the
	// romanized title had no usable characters.
	Fallback bool
	// Stage is the last stage reached.
	Stage Stage
}

// StageError reports the stage a title failed to reach.
type StageError struct {
	Stage Stage
	Title string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage.action() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Transliterator converts text to romaji.
type Transliterator interface {
	ToRomaji(ctx context.Context, text string) (string, error)
}

// CollisionPolicy decides what happens when two titles map to one name.
type CollisionPolicy string

// Collision policies.
const (
	// CollisionOverwrite lets the last writer win.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionError rejects a name already claimed in this run or present on disk.
	CollisionError CollisionPolicy = "error"
)

// Dirs holds the working directories.
type Dirs struct {
	Articles   string
	Thumbnails string
	Temp       string
}

// DefaultDirs returns the directories relative to the working directory.
func DefaultDirs() Dirs {
	return Dirs{Articles: "articles", Thumbnails: "thumbnails", Temp: "temp"}
}

// Deck holds the front matter directives written for each title.
type Deck struct {
	// Theme is the theme name; empty derives it from the theme file name.
	Theme    string
	Paginate bool
	Header   string
	Footer   string
	// Size is "16:9" or "4:3".
	Size string
}

// Viewport is the browser viewport used for capture.
type Viewport struct {
	Width  int
	Height int
	// Scale is the device scale factor.
	Scale float64
}

// DefaultViewport is 1280x720 CSS pixels at 2x, a 2560x1440 image.
var DefaultViewport = Viewport{Width: 1280, Height: 720, Scale: 2}

// DefaultHideSelectors are the bespoke navigation widgets hidden before capture.
var DefaultHideSelectors = []string{
	".bespoke-marp-osc",
	".bespoke-marp-progress",
	"#bespoke-progress",
}

// defaultTimeout bounds page loading when no timeout is specified.
const defaultTimeout = 30 * time.Second

// defaultThemePath is the stylesheet path relative to the working directory.
const defaultThemePath = "theme/custom.css"

// Option configures a Generator.
type Option func(*generatorConfig)

// generatorConfig holds Generator settings collected from options.
type generatorConfig struct {
	dirs           Dirs
	themePath      string
	deck           Deck
	viewport       Viewport
	timeout        time.Duration
	hide           []string
	outputWidth    int
	collision      CollisionPolicy
	reuseBrowser   bool
	renderer       Renderer
	capturer       Capturer
	transliterator Transliterator
	names          *NameRegistry
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		dirs:      DefaultDirs(),
		themePath: defaultThemePath,
		deck:      Deck{Size: "16:9"},
		viewport:  DefaultViewport,
		timeout:   defaultTimeout,
		hide:      append([]string(nil), DefaultHideSelectors...),
		collision: CollisionOverwrite,
	}
}

// WithDirs sets the articles, thumbnails and temp directories.
func WithDirs(d Dirs) Option {
	return func(c *generatorConfig) {
		c.dirs = d
	}
}

// WithThemePath sets the theme stylesheet. A missing file falls back to the
// embedded theme of the same name.
func WithThemePath(path string) Option {
	return func(c *generatorConfig) {
		c.themePath = path
	}
}

// WithDeck sets the deck directives.
func WithDeck(d Deck) Option {
	return func(c *generatorConfig) {
		c.deck = d
	}
}

// WithViewport sets the capture viewport.
func WithViewport(v Viewport) Option {
	return func(c *generatorConfig) {
		c.viewport = v
	}
}

// WithTimeout sets the page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2thumb: WithTimeout duration must be positive")
	}
	return func(c *generatorConfig) {
		c.timeout = d
	}
}

// WithHideSelectors replaces the selectors hidden before capture.
func WithHideSelectors(selectors []string) Option {
	return func(c *generatorConfig) {
		c.hide = append([]string(nil), selectors...)
	}
}

// WithOutputWidth downsizes thumbnails to width pixels, keeping the aspect
// ratio. Zero keeps the captured size.
func WithOutputWidth(width int) Option {
	return func(c *generatorConfig) {
		c.outputWidth = width
	}
}

// WithCollisionPolicy sets how name collisions are handled.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(c *generatorConfig) {
		c.collision = p
	}
}

// WithReuseBrowser keeps one browser alive across titles until Close.
func WithReuseBrowser(reuse bool) Option {
	return func(c *generatorConfig) {
		c.reuseBrowser = reuse
	}
}

// WithRenderer replaces the markdown to HTML renderer.
func WithRenderer(r Renderer) Option {
	return func(c *generatorConfig) {
		c.renderer = r
	}
}

// WithCapturer replaces the screenshot capturer.
func WithCapturer(cp Capturer) Option {
	return func(c *generatorConfig) {
		c.capturer = cp
	}
}

// WithTransliterator replaces the romaji converter.
func WithTransliterator(t Transliterator) Option {
	return func(c *generatorConfig) {
		c.transliterator = t
	}
}

// WithNameRegistry shares a name registry between generators.
func WithNameRegistry(r *NameRegistry) Option {
	return func(c *generatorConfig) {
		c.names = r
	}
}
