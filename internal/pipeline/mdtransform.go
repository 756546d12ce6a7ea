package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after HTML generation.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
	slideRuler         = regexp.MustCompile(`^ {0,3}-{3,}\s*$`)
	fenceOpen          = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// SlidePreprocessor normalizes a slide body before conversion.
type SlidePreprocessor struct{}

// PreprocessMarkdown normalizes line endings, converts ==highlight== syntax
// and compresses runs of blank lines.
func (p *SlidePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

// SplitSlides splits a deck body on horizontal rulers ("---" lines).
// Rulers inside fenced code blocks do not split. Always returns at least one
// slide, so an empty body yields a single empty slide.
func SplitSlides(body string) []string {
	lines := strings.Split(normalizeLineEndings(body), "\n")

	var (
		slides  []string
		current []string
		fence   string
	)
	for _, line := range lines {
		if fence != "" {
			if strings.HasPrefix(strings.TrimSpace(line), fence) {
				fence = ""
			}
			current = append(current, line)
			continue
		}
		if m := fenceOpen.FindStringSubmatch(line); m != nil {
			fence = m[1]
			current = append(current, line)
			continue
		}
		if slideRuler.MatchString(line) {
			slides = append(slides, strings.Join(current, "\n"))
			current = nil
			continue
		}
		current = append(current, line)
	}
	slides = append(slides, strings.Join(current, "\n"))
	return slides
}
