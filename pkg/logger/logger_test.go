package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Logger{zlog: zerolog.New(buf)}, buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("ERROR"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}

func TestWithFieldsEmitsStructuredJSON(t *testing.T) {
	log, buf := captureLogger()

	log.WithFields(map[string]interface{}{
		"year": 2024,
		"rows": 42,
	}).Info("Fact table aggregated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Fact table aggregated", entry["message"])
	assert.Equal(t, float64(2024), entry["year"])
	assert.Equal(t, float64(42), entry["rows"])
}

func TestWithErrorAttachesError(t *testing.T) {
	log, buf := captureLogger()

	log.WithError(errors.New("boom")).Error("Persist failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestNopLoggerDiscards(t *testing.T) {
	// Must not panic and must not write anywhere.
	log := NewNop()
	log.Info("ignored")
	log.WithField("k", "v").Warnf("ignored %d", 1)
}
