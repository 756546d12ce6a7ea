package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   *FilesystemLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTheme loads a CSS theme, trying the custom loader first if available.
func (r *AssetResolver) LoadTheme(name string) (string, error) {
	content, _, err := r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTheme(name)
	})
	return content, err
}

// LoadTemplate loads an HTML template, trying the custom loader first if available.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	content, _, err := r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTemplate(name)
	})
	return content, err
}

// loadWithFallback implements the custom-first, fallback-to-embedded logic.
// The boolean reports whether the content came from the custom loader.
func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, bool, error) {
	if r.custom == nil {
		content, err := loadFn(r.embedded)
		return content, false, err
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, true, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", false, err
	}

	content, err = loadFn(r.embedded)
	return content, false, err
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrThemeNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Theme is a resolved slide theme.
type Theme struct {
	// Name is the theme name referenced by the deck front matter.
	Name string
	// CSS is the stylesheet content.
	CSS string
	// Path is the stylesheet file on disk, or empty when the embedded
	// copy was used.
	Path string
}

// ResolveTheme resolves a stylesheet path such as theme/custom.css.
// The file is read when present; otherwise the embedded theme with the same
// name is used. An empty path selects the default embedded theme.
func ResolveTheme(themePath string) (*Theme, error) {
	if themePath == "" {
		css, err := NewEmbeddedLoader().LoadTheme(DefaultThemeName)
		if err != nil {
			return nil, err
		}
		return &Theme{Name: DefaultThemeName, CSS: css}, nil
	}

	dir := filepath.Dir(themePath)
	name := strings.TrimSuffix(filepath.Base(themePath), ".css")

	customDir := ""
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		customDir = dir
	}

	resolver, err := NewAssetResolver(customDir)
	if err != nil {
		return nil, err
	}

	css, fromCustom, err := resolver.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTheme(name)
	})
	if err != nil {
		return nil, err
	}

	theme := &Theme{Name: name, CSS: css}
	if fromCustom {
		theme.Path = filepath.Join(resolver.custom.BasePath(), name+".css")
	}
	return theme, nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
