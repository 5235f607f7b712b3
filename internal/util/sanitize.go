package util

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

const MaxDisplayNameRunes = 100

// SanitizeDisplayName strips control and invisible characters from a
// user-supplied name, collapses runs of whitespace and truncates the result.
func SanitizeDisplayName(name string) (string, error) {
	if strings.Contains(name, "\x00") {
		return "", apierror.New("INVALID_NAME", "name contains null bytes", "", http.StatusBadRequest)
	}

	builder := strings.Builder{}
	builder.Grow(len(name))

	for _, char := range name {
		if unicode.IsControl(char) && !unicode.IsSpace(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.Join(strings.Fields(builder.String()), " ")
	if cleaned == "" {
		return "", apierror.New("INVALID_NAME", "name is empty after sanitization", "", http.StatusBadRequest)
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > MaxDisplayNameRunes {
		cleaned = strings.TrimSpace(string(runes[:MaxDisplayNameRunes]))
	}

	return cleaned, nil
}

// isInvisibleUnicode reports zero-width and other formatting characters that
// render as nothing.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF', // Zero-Width No-Break Space / BOM
		'\uFFF9', // Interlinear Annotation Anchor
		'\uFFFA', // Interlinear Annotation Separator
		'\uFFFB': // Interlinear Annotation Terminator
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
