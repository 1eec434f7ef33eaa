package applog

import (
	"bytes"
	"errors"
	stdlog "log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput points the package logger at a buffer for one test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	loggerOnce.Do(func() {})
	var buf bytes.Buffer
	logger = stdlog.New(&buf, "", 0)
	t.Cleanup(func() { minLevel = LevelInfo })
	return &buf
}

func TestInfoLineFormat(t *testing.T) {
	buf := captureOutput(t)

	Info("touch ready", "chip_id", "0xB4")

	line := strings.TrimSuffix(buf.String(), "\n")
	ts, rest, ok := strings.Cut(line, " ")
	require.True(t, ok, "line %q", line)
	_, err := time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err, "timestamp %q", ts)
	assert.Equal(t, "[INFO] touch ready chip_id=0xB4", rest)
}

func TestErrorAppendsErrField(t *testing.T) {
	buf := captureOutput(t)

	Error("flush failed", errors.New("spi: short write"), "panel", "st7789")

	assert.Contains(t, buf.String(), "[ERROR] flush failed err=spi: short write panel=st7789")
}

func TestDebugSuppressedAtDefaultLevel(t *testing.T) {
	buf := captureOutput(t)

	Debug("poll", "x", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("poll", "x", 1)
	assert.Contains(t, buf.String(), "[DEBUG] poll x=1")
}

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		min   Level
		level Level
		want  bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelWarn, true},
		{LevelWarn, LevelError, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
	}
	for _, tc := range cases {
		minLevel = tc.min
		assert.Equal(t, tc.want, enabled(tc.level), "min=%s level=%s", tc.min, tc.level)
	}
	minLevel = LevelInfo
}

func TestFormatKVsSkipsMalformedPairs(t *testing.T) {
	assert.Equal(t, " a=1 b=two", formatKVs("a", 1, "b", "two"))
	// An odd trailing argument is dropped.
	assert.Equal(t, " a=1", formatKVs("a", 1, "dangling"))
	// A non-string key skips the pair.
	assert.Equal(t, "", formatKVs(42, "x"))
}
