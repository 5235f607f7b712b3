package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

func TestSanitizeDisplayName(t *testing.T) {
	t.Parallel()

	t.Run("trims and collapses whitespace", func(t *testing.T) {
		actual, err := SanitizeDisplayName("  Ada \t\n Lovelace ")
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", actual)
	})

	t.Run("strips zero-width and control characters", func(t *testing.T) {
		actual, err := SanitizeDisplayName("Ad\u200Ba\u0007 \u202EL")
		require.NoError(t, err)
		require.Equal(t, "Ada L", actual)
	})

	t.Run("rejects names that are empty after cleaning", func(t *testing.T) {
		_, err := SanitizeDisplayName("\u200B\u200D  ")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "INVALID_NAME", apiErr.Code)
	})

	t.Run("rejects null bytes", func(t *testing.T) {
		_, err := SanitizeDisplayName("Ada\x00")
		require.Error(t, err)
	})

	t.Run("truncates by runes", func(t *testing.T) {
		actual, err := SanitizeDisplayName(strings.Repeat("é", 150))
		require.NoError(t, err)
		require.Len(t, []rune(actual), MaxDisplayNameRunes)
		require.True(t, utf8.ValidString(actual))
	})
}
