package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logLevel(" WARN "))
	assert.Equal(t, slog.LevelError, logLevel("error"))
	assert.Equal(t, slog.LevelInfo, logLevel(""))
	assert.Equal(t, slog.LevelInfo, logLevel("verbose"))
}

func TestNilInstrumentsFallBackToGlobalProviders(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}

func TestSamplerRatio(t *testing.T) {
	assert.Equal(t, 1.0, samplerRatio(""))
	assert.Equal(t, 1.0, samplerRatio("half"))
	assert.Equal(t, 0.25, samplerRatio("0.25"))
	assert.Equal(t, 0.0, samplerRatio("-3"))
	assert.Equal(t, 1.0, samplerRatio("7"))
}

func TestNewLogger_TextFormatTagsService(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	logger := newLogger(&buf, "marketplace-api")

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "service=marketplace-api")
}

func TestInit_WithExportDisabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	instruments, shutdown, err := Init(context.Background(), "marketplace-test")
	require.NoError(t, err)
	assert.Equal(t, "marketplace-test", instruments.ServiceName)
	assert.NotNil(t, instruments.Tracer("t"))
	require.NoError(t, shutdown(context.Background()))
}
