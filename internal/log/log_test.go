package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/modtap/device/keyboard"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLogger_ConsoleSplit(t *testing.T) {
	var out, errs bytes.Buffer
	logger := newLogger(LevelTrace, &out, &errs, nil)

	logger.Log(context.Background(), LevelTrace, "tick")
	logger.With("instance", "mht").Error("boom")

	assert.Contains(t, out.String(), "level=TRACE")
	assert.NotContains(t, out.String(), "boom")
	assert.Contains(t, errs.String(), "boom")
	assert.Contains(t, errs.String(), "instance=mht")
	assert.NotContains(t, errs.String(), "tick")
}

func TestNewLogger_FileCopy(t *testing.T) {
	var out, errs, file bytes.Buffer
	logger := newLogger(slog.LevelInfo, &out, &errs, &file)

	logger.Debug("hidden")
	logger.Info("shown")
	logger.Error("boom")

	assert.Empty(t, out.String())
	for _, buf := range []*bytes.Buffer{&errs, &file} {
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "boom")
		assert.NotContains(t, buf.String(), "hidden")
	}
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf).(*rawLogger)
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	var st keyboard.InputState
	st.Press(keyboard.KeyLeftShift)
	st.Press(keyboard.KeyA)
	require.NoError(t, r.WriteReport(st))
	r.Log(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "2024/01/02 03:04:05.000 #1 report: 34 bytes, hex: 02 00 10 00"), lines[0])
}

func TestRawLogger_NilWriter(t *testing.T) {
	r := NewRaw(nil)
	r.Log([]byte{1, 2})
	assert.NoError(t, r.WriteReport(keyboard.InputState{}))
}
