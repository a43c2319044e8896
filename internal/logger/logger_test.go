package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := build(Config{Level: "warn", Console: true}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", zap.String("learner_id", "l1"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "learner_id")
}

func TestFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pathwise.log")
	log, err := build(Config{Level: "info", File: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	log.Info("quiz scored", zap.Int("score", 8))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &line))
	assert.Equal(t, "quiz scored", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.EqualValues(t, 8, line["score"])
}

func TestBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNoOutputs(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
}
