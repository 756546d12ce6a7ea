package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2thumb/internal/fileutil"
	"github.com/alnah/go-md2thumb/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength      = 4096
	MaxThemeNameLength = 64
	MaxTextLength      = 200 // header/footer
	MaxSelectorLength  = 200
	MaxHideSelectors   = 32
)

// Renderer backends.
const (
	BackendBuiltin = "builtin"
	BackendMarp    = "marp"
)

// Collision policies.
const (
	CollisionOverwrite = "overwrite"
	CollisionError     = "error"
)

// Capture bounds.
const (
	MaxViewportSide = 7680
	MaxScale        = 4.0
)

// Default values.
const (
	DefaultArticlesDir   = "articles"
	DefaultThumbnailsDir = "thumbnails"
	DefaultTempDir       = "temp"
	DefaultThemePath     = "theme/custom.css"
	DefaultThemeName     = "custom"
	DefaultSize          = "16:9"
	DefaultMarpBin       = "marp"
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultScale         = 2.0
	DefaultTimeout       = "30s"
)

// DefaultHideSelectors lists the slide-deck UI chrome hidden before capture.
var DefaultHideSelectors = []string{
	".bespoke-marp-osc",
	".bespoke-marp-progress",
	"#bespoke-progress",
}

// Config holds all configuration for thumbnail generation.
type Config struct {
	Root    string        `yaml:"root"` // Base for relative paths (empty = working directory)
	Paths   PathsConfig   `yaml:"paths"`
	Render  RenderConfig  `yaml:"render"`
	Capture CaptureConfig `yaml:"capture"`
	Output  OutputConfig  `yaml:"output"`
	Workers int           `yaml:"workers"` // 0 = auto
}

// PathsConfig defines the working directories and theme stylesheet.
type PathsConfig struct {
	Articles   string `yaml:"articles"`   // Scratch markdown
	Thumbnails string `yaml:"thumbnails"` // PNG output
	Temp       string `yaml:"temp"`       // Scratch HTML
	Theme      string `yaml:"theme"`      // Stylesheet; embedded default when missing
}

// RenderConfig defines the slide renderer and deck metadata.
type RenderConfig struct {
	Backend  string `yaml:"backend"` // "builtin" or "marp"
	MarpBin  string `yaml:"marpBin"`
	Theme    string `yaml:"theme"` // Theme name written to front matter
	Size     string `yaml:"size"`  // "16:9" or "4:3"
	Paginate bool   `yaml:"paginate"`
	Header   string `yaml:"header"`
	Footer   string `yaml:"footer"`
}

// CaptureConfig defines headless browser capture settings.
type CaptureConfig struct {
	Width        int      `yaml:"width"`  // Logical pixels
	Height       int      `yaml:"height"` // Logical pixels
	Scale        float64  `yaml:"scale"`  // Device scale factor
	Timeout      string   `yaml:"timeout"`
	ReuseBrowser bool     `yaml:"reuseBrowser"`
	Hide         []string `yaml:"hide"` // CSS selectors hidden before capture
}

// OutputConfig defines PNG output options.
type OutputConfig struct {
	Width     int    `yaml:"width"`     // Resize to this width (0 = keep capture size)
	Collision string `yaml:"collision"` // "overwrite" or "error"
}

// TimeoutDuration parses Capture.Timeout. Empty means DefaultTimeout.
func (c CaptureConfig) TimeoutDuration() (time.Duration, error) {
	s := c.Timeout
	if s == "" {
		s = DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: capture.timeout %q: %v", ErrInvalidValue, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: capture.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Resolve returns p joined to Root unless p is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Validate checks enumerations, bounds and field lengths.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"root", c.Root},
		{"paths.articles", c.Paths.Articles},
		{"paths.thumbnails", c.Paths.Thumbnails},
		{"paths.temp", c.Paths.Temp},
		{"paths.theme", c.Paths.Theme},
		{"render.marpBin", c.Render.MarpBin},
	} {
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}

	switch c.Render.Backend {
	case "", BackendBuiltin, BackendMarp:
	default:
		return fmt.Errorf("%w: render.backend %q (must be %s or %s)", ErrInvalidValue, c.Render.Backend, BackendBuiltin, BackendMarp)
	}
	if err := validateFieldLength("render.theme", c.Render.Theme, MaxThemeNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Render.Theme, "/\\\n") {
		return fmt.Errorf("%w: render.theme %q must be a name", ErrInvalidValue, c.Render.Theme)
	}
	switch c.Render.Size {
	case "", "16:9", "4:3":
	default:
		return fmt.Errorf("%w: render.size %q (must be 16:9 or 4:3)", ErrInvalidValue, c.Render.Size)
	}
	if err := validateFieldLength("render.header", c.Render.Header, MaxTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.footer", c.Render.Footer, MaxTextLength); err != nil {
		return err
	}

	if c.Capture.Width < 0 || c.Capture.Width > MaxViewportSide {
		return fmt.Errorf("%w: capture.width must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSide, c.Capture.Width)
	}
	if c.Capture.Height < 0 || c.Capture.Height > MaxViewportSide {
		return fmt.Errorf("%w: capture.height must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSide, c.Capture.Height)
	}
	if c.Capture.Scale < 0 || c.Capture.Scale > MaxScale {
		return fmt.Errorf("%w: capture.scale must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxScale, c.Capture.Scale)
	}
	if _, err := c.Capture.TimeoutDuration(); err != nil {
		return err
	}
	if len(c.Capture.Hide) > MaxHideSelectors {
		return fmt.Errorf("%w: capture.hide has %d selectors (max %d)", ErrInvalidValue, len(c.Capture.Hide), MaxHideSelectors)
	}
	for i, sel := range c.Capture.Hide {
		if err := validateFieldLength(fmt.Sprintf("capture.hide[%d]", i), sel, MaxSelectorLength); err != nil {
			return err
		}
		if strings.ContainsAny(sel, "{}<") {
			return fmt.Errorf("%w: capture.hide[%d] %q is not a selector", ErrInvalidValue, i, sel)
		}
	}

	if c.Output.Width < 0 || c.Output.Width > MaxViewportSide*int(MaxScale) {
		return fmt.Errorf("%w: output.width must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSide*int(MaxScale), c.Output.Width)
	}
	switch c.Output.Collision {
	case "", CollisionOverwrite, CollisionError:
	default:
		return fmt.Errorf("%w: output.collision %q (must be %s or %s)", ErrInvalidValue, c.Output.Collision, CollisionOverwrite, CollisionError)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidValue, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the layout and capture settings used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Articles:   DefaultArticlesDir,
			Thumbnails: DefaultThumbnailsDir,
			Temp:       DefaultTempDir,
			Theme:      DefaultThemePath,
		},
		Render: RenderConfig{
			Backend: BackendBuiltin,
			MarpBin: DefaultMarpBin,
			Theme:   DefaultThemeName,
			Size:    DefaultSize,
		},
		Capture: CaptureConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Scale:   DefaultScale,
			Timeout: DefaultTimeout,
			Hide:    append([]string(nil), DefaultHideSelectors...),
		},
		Output: OutputConfig{
			Collision: CollisionOverwrite,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2thumb/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2thumb", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
