package util

import (
	"strings"
	"unicode"
)

// SanitizeText strips control and invisible characters from free-form
// profile input, collapses inner whitespace and truncates to maxRunes.
func SanitizeText(s string, maxRunes int) string {
	builder := strings.Builder{}
	builder.Grow(len(s))

	space := false
	for _, char := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(char):
			space = true
			continue
		case unicode.IsControl(char) || isInvisibleUnicode(char):
			continue
		}

		if space && builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		space = false
		builder.WriteRune(char)
	}

	cleaned := builder.String()

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	if maxRunes > 0 {
		if runes := []rune(cleaned); len(runes) > maxRunes {
			cleaned = string(runes[:maxRunes])
		}
	}

	return cleaned
}

// NormalizeEmail is the canonical form used for lookups and cache keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(SanitizeText(email, 254))
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
