package assets

import "errors"

// Asset lookup failures. Callers match them with errors.Is.
var (
	ErrThemeNotFound    = errors.New("theme not found")
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName rejects names with separators, dots or traversal.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath means a theme directory is missing or unreadable.
	ErrInvalidBasePath = errors.New("invalid base path")
	ErrAssetRead       = errors.New("failed to read asset")

	// ErrPathTraversal means a resolved file lies outside its base directory,
	// for example through a symlink.
	ErrPathTraversal = errors.New("path traversal detected")
)
