package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromCore(core), logs
}

func TestLoggerEmitsFields(t *testing.T) {
	log, logs := observedLogger(zapcore.DebugLevel)

	log.Info("report generated",
		String("case_id", "case-0001"),
		Int("score", 57),
		Duration("elapsed", 120*time.Millisecond),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "report generated", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "case-0001", fields["case_id"])
	assert.EqualValues(t, 57, fields["score"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	log, logs := observedLogger(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.Len())
}

func TestLoggerWithAddsPersistentFields(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	child := log.With(String("component", "orchestrator"))
	child.Info("first")
	child.Info("second")

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "orchestrator", entry.ContextMap()["component"])
	}
}

func TestLoggerNamed(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Named("http").Info("request")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "http", logs.All()[0].LoggerName)
}

func TestErrField(t *testing.T) {
	assert.Equal(t, "error", Err(errors.New("boom")).Key)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNewAppliesDefaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestDefaultLoggerSwap(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	log, logs := observedLogger(zapcore.InfoLevel)
	SetDefault(log)
	Default().Info("via default")

	assert.Equal(t, 1, logs.Len())
	// nil is ignored, the previous default survives.
	SetDefault(nil)
	assert.Equal(t, log, Default())
}
