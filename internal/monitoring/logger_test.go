package monitoring

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden message")
	assert.Empty(t, buf.String())

	logger.Warn("visible message", "trip_id", "abc")
	assert.Contains(t, buf.String(), "visible message")
	assert.Contains(t, buf.String(), "trip_id")
}

func TestAlertLogsWithoutErrorTracking(t *testing.T) {
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(NewLogger(&buf, "debug"))
	defer slog.SetDefault(original)

	Alert("could not mint invitation", errors.New("boom"))

	assert.Contains(t, buf.String(), "could not mint invitation")
	assert.Contains(t, buf.String(), "boom")
}
