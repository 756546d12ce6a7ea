// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Config files and deck front matter both go through it.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// frontMatterFence delimits a front matter block.
const frontMatterFence = "---"

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// SplitFrontMatter separates a leading "---" fenced YAML block from the rest
// of a markdown document. ok is false when the document has no front matter,
// in which case body is the whole input.
func SplitFrontMatter(doc string) (front, body string, ok bool) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	if !strings.HasPrefix(doc, frontMatterFence+"\n") {
		return "", doc, false
	}

	rest := doc[len(frontMatterFence)+1:]
	// Empty front matter: closing fence immediately follows the opening one.
	if strings.HasPrefix(rest, frontMatterFence+"\n") || rest == frontMatterFence {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, frontMatterFence), "\n"), true
	}

	end := strings.Index(rest, "\n"+frontMatterFence+"\n")
	if end == -1 {
		if strings.HasSuffix(rest, "\n"+frontMatterFence) {
			return rest[:len(rest)-len(frontMatterFence)-1], "", true
		}
		return "", doc, false
	}

	return rest[:end], rest[end+len(frontMatterFence)+2:], true
}

// DecodeFrontMatter splits doc and unmarshals its front matter into v.
// Unknown keys are ignored. A document without front matter leaves v untouched.
func DecodeFrontMatter(doc string, v any) (body string, err error) {
	front, body, ok := SplitFrontMatter(doc)
	if !ok || strings.TrimSpace(front) == "" {
		return body, nil
	}
	if err := Unmarshal([]byte(front), v); err != nil {
		return "", err
	}
	return body, nil
}
