package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("wallpaper updated")
	closeFn()

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "wallpaper updated")
	assert.NotContains(t, out, "hidden")
}

func TestNew_RawTerminalUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Output: RawTerminal, Writer: &buf})
	require.NoError(t, err)

	logger.Info("one")
	closeFn()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\n"), "line = %q", buf.String())
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "backdrop.log")
	logger, closeFn, err := New(Options{Output: File, Path: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("to file")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNew_FileWithoutPath(t *testing.T) {
	_, _, err := New(Options{Output: File})
	require.Error(t, err)
}
