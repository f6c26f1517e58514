package tqlog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqlog"
)

func TestNew_JSONFormatWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := tqlog.New(tqlog.WithWriter(&buf), tqlog.WithFormat("json"), tqlog.WithLevel(slog.LevelInfo), tqlog.WithAddSource(false))
	logger.Infof("compiled %s in %dms", "select-over-18", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "compiled select-over-18 in 3ms", line["msg"])
}

func TestNew_TextFormatIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger := tqlog.New(tqlog.WithWriter(&buf), tqlog.WithFormat("text"), tqlog.WithAddSource(false))
	logger.Warnf("cache disabled")

	require.Contains(t, buf.String(), "cache disabled")
	require.Contains(t, buf.String(), "level=WARN")
}

func TestNew_LevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := tqlog.New(tqlog.WithWriter(&buf), tqlog.WithLevel(slog.LevelWarn), tqlog.WithAddSource(false))
	logger.Debugf("should not appear")

	require.Empty(t, strings.TrimSpace(buf.String()))
}

func TestLevelFromStr(t *testing.T) {
	require.Equal(t, slog.LevelDebug, tqlog.LevelFromStr("debug"))
	require.Equal(t, slog.LevelWarn, tqlog.LevelFromStr("warn"))
	require.Equal(t, slog.LevelError, tqlog.LevelFromStr("error"))
	require.Equal(t, slog.LevelInfo, tqlog.LevelFromStr("unknown"))
}
