// Package dateutil expands date placeholders in slide header and footer text.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format or placeholder.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare {date} placeholder.
const DefaultDateFormat = "YYYY-MM-DD"

// Placeholder delimiters: {date} or {date:FORMAT}.
const (
	placeholderOpen = "{date"
	placeholderEnd  = "}"
)

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
// "ja" renders the Japanese year-month-day form.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"ja":       "YYYY[年]M[月]D[日]",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is literal,
// and any other character is kept as is.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}

	return b.String(), nil
}

// FormatDate formats t with a user-friendly format or preset name.
func FormatDate(format string, t time.Time) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}

// Expand replaces every {date} and {date:FORMAT} placeholder in text with t
// formatted accordingly. Text without placeholders is returned unchanged.
//
//	Expand("公開 {date:ja}", t)  // "公開 2024年4月1日"
func Expand(text string, t time.Time) (string, error) {
	if !strings.Contains(text, placeholderOpen) {
		return text, nil
	}

	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, placeholderOpen)
		if start == -1 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])

		after := rest[start+len(placeholderOpen):]
		end := strings.Index(after, placeholderEnd)
		if end == -1 {
			return "", fmt.Errorf("%w: unclosed placeholder in %q", ErrInvalidDateFormat, text)
		}

		inner := after[:end]
		format := DefaultDateFormat
		switch {
		case inner == "":
		case strings.HasPrefix(inner, ":"):
			format = inner[1:]
		default:
			// "{dated}" and similar are not placeholders.
			b.WriteString(placeholderOpen)
			rest = after
			continue
		}

		formatted, err := FormatDate(format, t)
		if err != nil {
			return "", err
		}
		b.WriteString(formatted)
		rest = after[end+len(placeholderEnd):]
	}

	return b.String(), nil
}
