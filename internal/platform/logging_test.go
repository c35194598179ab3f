package platform

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LogConfig{Level: "warn", Format: "json"}, false, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "game", "Minecraft")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"game":"Minecraft"`)
}

func TestNewLoggerVerbose(t *testing.T) {
	logger, closer, err := NewLogger(LogConfig{Level: "error"}, true, nil)
	require.NoError(t, err)
	defer closer.Close()
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notepad.log")
	logger, closer, err := NewLogger(LogConfig{File: path}, false, nil)
	require.NoError(t, err)

	logger.Info("appended")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=appended")
}

func TestNewLoggerRejectsUnknownSettings(t *testing.T) {
	_, _, err := NewLogger(LogConfig{Level: "loud"}, false, nil)
	assert.ErrorContains(t, err, "unknown log level")

	_, _, err = NewLogger(LogConfig{Format: "xml"}, false, nil)
	assert.ErrorContains(t, err, "unknown log format")
}
