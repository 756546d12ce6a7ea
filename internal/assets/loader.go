package assets

// AssetLoader defines the contract for loading slide themes and HTML templates.
type AssetLoader interface {
	// LoadTheme loads a CSS theme by name (without .css extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// DefaultThemeName is the name of the built-in slide theme.
const DefaultThemeName = "custom"

// DeckTemplateName is the name of the built-in deck template.
const DeckTemplateName = "bespoke"
