package md2thumb

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrNameCollision   = errors.New("thumbnail name already claimed")
	ErrRender          = errors.New("rendering deck failed")
	ErrMarpNotFound    = errors.New("marp command not found")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrScreenshot      = errors.New("screenshot failed")
	ErrWriteThumbnail  = errors.New("failed to write thumbnail")
	ErrResize          = errors.New("resizing thumbnail failed")
	ErrPoolClosed      = errors.New("generator pool is closed")
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidOption   = errors.New("invalid option")
)
