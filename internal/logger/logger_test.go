package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSONRedactsSensitiveKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(&buf, "json", "info")
	require.NoError(t, err)

	log.Info("login", "email", "a@x.com", "password", "Secret1!", "Token", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "a@x.com", line["email"])
	require.Equal(t, redactedValue, line["password"])
	require.Equal(t, redactedValue, line["Token"])
}

func TestNewPrettyRedactsAndFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(&buf, "pretty", "warn")
	require.NoError(t, err)

	log.Info("hidden")
	require.Zero(t, buf.Len())

	log.With("authorization", "Bearer abc").WithGroup("req").Warn("denied", "path", "/x")

	out := buf.String()
	require.Contains(t, out, "denied")
	require.Contains(t, out, "req.path")
	require.Contains(t, out, redactedValue)
	require.NotContains(t, out, "Bearer abc")
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	t.Parallel()

	_, err := New(&bytes.Buffer{}, "xml", "info")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "json", "loud")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)
}
