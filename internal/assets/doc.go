// Package assets provides slide themes and HTML templates for thumbnail rendering.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in theme)
//	    ├── FilesystemLoader  - loads from a theme directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// ResolveTheme maps a stylesheet path such as theme/custom.css onto the
// resolver: the directory becomes the custom base path and the file name
// (without .css) the theme name. A missing custom.css therefore falls back
// to the embedded theme of the same name.
//
// # Directory Structure
//
//	{basePath}/
//	├── {name}.css     # themes (e.g., custom.css)
//	└── {name}.html    # deck templates (e.g., bespoke.html)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
