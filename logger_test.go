package main

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServerLogger(t *testing.T) {
	var out bytes.Buffer
	logger := newServerLogger(&out, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("turn answered", "answer_len", 2, "error", errors.New("none"))

	line := out.String()
	assert.NotContains(t, line, "hidden")
	assert.Contains(t, line, "turn answered")
	assert.Contains(t, line, "answer_len")
	assert.Contains(t, line, "none")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
