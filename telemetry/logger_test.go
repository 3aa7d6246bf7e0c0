package telemetry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNopLogger(t *testing.T) {
	var logger Logger = NopLogger{}

	logger.Debug("debug", "k", "v")
	logger.Info("info")
	logger.Warn("warn", "dangling")
	logger.Error("error", "error", errors.New("boom"))
}

func TestZapLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debug("debug message", "key", "value")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "key", "value")
	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "info message", entry.Message)
	assert.Equal(t, "value", entry.ContextMap()["key"])

	logger.Warn("warn message")
	logger.Error("error message")
	assert.Equal(t, 3, recorded.Len())
	assert.Equal(t, zapcore.ErrorLevel, recorded.All()[2].Level)
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(logrus.InfoLevel)

	logger := NewLogrusLogger(base)

	logger.Debug("debug message")
	assert.Empty(t, buf.String(), "Debug message should not be written at Info level")

	logger.Warn("token rejected", "reason", errors.New("token expired"), "dangling")
	out := buf.String()
	assert.Contains(t, out, `"msg":"token rejected"`)
	assert.Contains(t, out, `"reason":"token expired"`)
	assert.Contains(t, out, `"dangling":"MISSING"`)
	assert.Contains(t, out, `"level":"warning"`)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("debug message")
	assert.Empty(t, buf.String())

	logger.Error("jwks fetch failed", "url", "https://example.com/jwks.json", "error", errors.New("timeout"))
	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"message":"jwks fetch failed"`)
	assert.Contains(t, out, `"url":"https://example.com/jwks.json"`)
	assert.Contains(t, out, `"error":"timeout"`)
}
