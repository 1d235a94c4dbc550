package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"whiskey/config"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Level = "debug"

	logger, err := New(&buf, cfg)
	require.NoError(t, err)

	logger.Debug("evaluated", "run", 1)
	out := buf.String()
	require.Contains(t, out, "evaluated")
	require.Contains(t, out, "run=1")
	require.NotContains(t, out, "\x1b[", "a buffer is not a terminal, so auto colour is off")
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.Default())
	require.NoError(t, err)

	logger.Debug("hidden")
	require.Empty(t, buf.String())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Format = config.FormatJSON

	logger, err := New(&buf, cfg)
	require.NoError(t, err)
	logger.Info("started", "session", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "started", record["msg"])
	require.Equal(t, "abc", record["session"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := New(&bytes.Buffer{}, cfg)
	require.Error(t, err)
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	require.True(t, UseColor(&buf, config.ColorAlways))
	require.False(t, UseColor(&buf, config.ColorNever))
	require.False(t, UseColor(&buf, config.ColorAuto))
	require.False(t, IsTerminal(&buf))
}

func TestForcedColor(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Color = config.ColorAlways

	logger, err := New(&buf, cfg)
	require.NoError(t, err)
	logger.Error("boom")
	require.Contains(t, buf.String(), "\x1b[")
}
