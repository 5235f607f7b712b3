package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(8)

	t.Run("accepts a strong password", func(t *testing.T) {
		result := policy.Validate("Sup3r$ecret")

		require.True(t, result.IsValid)
		require.Empty(t, result.Errors)
	})

	t.Run("reports every violated rule for the empty string", func(t *testing.T) {
		result := policy.Validate("")

		require.False(t, result.IsValid)
		require.Len(t, result.Errors, 5)
		require.Contains(t, result.Errors[0], "at least 8 characters")
	})

	t.Run("reports rules in a fixed order", func(t *testing.T) {
		result := policy.Validate("123456")

		require.False(t, result.IsValid)
		require.Equal(t, []string{
			"password must be at least 8 characters long",
			"password must include at least one uppercase letter",
			"password must include at least one lowercase letter",
			"password must include at least one special character",
		}, result.Errors)
	})

	t.Run("short passwords always fail the length rule", func(t *testing.T) {
		for _, candidate := range []string{"A", "Ab1!", "Ab1!xyz", "ÄÖÜ1!ab"} {
			result := policy.Validate(candidate)
			require.False(t, result.IsValid, candidate)
			require.Contains(t, result.Errors, "password must be at least 8 characters long", candidate)
		}
	})

	t.Run("non-ASCII letters and digits do not count", func(t *testing.T) {
		result := policy.Validate("ÀÉÎÕàéîõ\u0661!")

		require.False(t, result.IsValid)
		require.Equal(t, []string{
			"password must include at least one uppercase letter",
			"password must include at least one lowercase letter",
			"password must include at least one number",
		}, result.Errors)

		require.True(t, policy.Validate("ÀéAb\u06611x!").IsValid)
	})

	t.Run("rejects the banned word in any case", func(t *testing.T) {
		for _, candidate := range []string{"Password1!", "myPASSWORD9#", "xxPaSsWoRd0?"} {
			result := policy.Validate(candidate)
			require.False(t, result.IsValid, candidate)
			require.Equal(t, []string{`password must not contain the word "password"`}, result.Errors, candidate)
		}
	})

	t.Run("each special character satisfies the rule", func(t *testing.T) {
		for _, r := range SpecialCharacters {
			result := policy.Validate("Abcdef1" + string(r))
			require.True(t, result.IsValid, string(r))
		}
	})

	t.Run("characters outside the special set do not count", func(t *testing.T) {
		result := policy.Validate("Abcdef12~")

		require.False(t, result.IsValid)
		require.Equal(t, []string{"password must include at least one special character"}, result.Errors)
	})
}

func TestPolicyMinimumLength(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultMinLength, NewPolicy(0).MinLength)
	require.Contains(t, Policy{}.Validate("Ab1!").Errors, "password must be at least 8 characters long")

	long := NewPolicy(12)
	result := long.Validate("Sup3r$ecret")
	require.False(t, result.IsValid)
	require.Equal(t, []string{"password must be at least 12 characters long"}, result.Errors)

	require.True(t, long.Validate("Sup3r$ecret"+strings.Repeat("x", 1)).IsValid)
}
