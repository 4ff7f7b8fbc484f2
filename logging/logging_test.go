package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "", "warn", "warning", "error", "none"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggerFilters(t *testing.T) {
	var buf bytes.Buffer
	allow, err := ParseLevel("warn")
	require.NoError(t, err)
	logger := NewLogger(&buf, allow)

	_ = level.Info(logger).Log("msg", "dropped")
	_ = level.Warn(logger).Log("msg", "kept", "turn", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.EqualValues(t, 3, entry["turn"])
	assert.Contains(t, entry, "ts")
	assert.Contains(t, entry, "caller")
}

func TestSetGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := GlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(NewLogger(&buf, level.AllowAll()))
	_ = level.Debug(GlobalLogger()).Log("msg", "hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
