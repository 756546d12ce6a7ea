// Package fileutil provides scratch-file and path helpers shared by the
// thumbnail pipeline.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrPrefixInvalid          = errors.New("prefix contains path separator or null byte")
)

// TempName returns a collision-resistant scratch identifier of the form
// "<prefix>-<32 hex chars>". Safe for concurrent use.
func TempName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// ScratchPath joins dir with a fresh TempName and the given extension.
func ScratchPath(dir, prefix, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	if strings.ContainsAny(prefix, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrPrefixInvalid, prefix)
	}
	return filepath.Join(dir, TempName(prefix)+"."+extension), nil
}

// RemoveQuietly deletes path and ignores every error, including a missing file.
func RemoveQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// EnsureDirs creates every directory in dirs (and parents) with perm.
// Stops at the first failure.
func EnsureDirs(perm os.FileMode, dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// ValidateExtension checks that the extension is safe for use in scratch file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "custom" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/theme.css" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
