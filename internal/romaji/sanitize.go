package romaji

import "strings"

// Sanitize lowercases s and keeps only ASCII letters and digits.
// The result is safe as a file base name; it may be empty.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}
