package main

import (
	"errors"

	md2thumb "github.com/alnah/go-md2thumb"
	"github.com/alnah/go-md2thumb/internal/config"
)

// Exit codes for md2thumb CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Batch finished (per-title failures included unless --strict)
	ExitGeneral = 1 // No titles, setup failure, or --strict with failures
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2thumb.ErrBrowserConnect) ||
		errors.Is(err, md2thumb.ErrPageCreate) ||
		errors.Is(err, md2thumb.ErrPageLoad) ||
		errors.Is(err, md2thumb.ErrScreenshot) ||
		errors.Is(err, ErrBrowserNotFound) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, md2thumb.ErrInvalidViewport) ||
		errors.Is(err, md2thumb.ErrInvalidOption) ||
		errors.Is(err, ErrInvalidFlag) {
		return ExitUsage
	}

	return ExitGeneral
}
