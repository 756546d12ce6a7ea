package assets

import (
	"embed"
	"fmt"
	"path"
)

// Stylesheets and page templates compiled into the binary.
//
//go:embed themes/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the built-in theme and deck template.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTheme returns themes/<name>.css.
func (e *EmbeddedLoader) LoadTheme(name string) (string, error) {
	return readEmbedded("themes", name, ".css", ErrThemeNotFound)
}

// LoadTemplate returns templates/<name>.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded("templates", name, ".html", ErrTemplateNotFound)
}

func readEmbedded(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	// embed.FS paths always use forward slashes.
	data, err := embedded.ReadFile(path.Join(dir, name+ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in)", notFound, name)
	}
	return string(data), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
