package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelDebug)

	l.With(String("component", "focus")).Info("activated",
		String("target", "Turbofan"),
		Duration("dwell", 3*time.Second),
		Float64("distance", 1.25),
		Bool("audio", true),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "activated", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "focus", ctx["component"])
	assert.Equal(t, "Turbofan", ctx["target"])
	assert.Equal(t, 3*time.Second, ctx["dwell"])
	assert.Equal(t, 1.25, ctx["distance"])
	assert.Equal(t, true, ctx["audio"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestSetLevelFiltersDerivedLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelDebug)
	child := l.With(String("component", "proximity"))

	child.Debug("distance")
	l.SetLevel(LevelWarn)
	child.Debug("distance")
	child.Info("scaled")
	child.Warn("degraded")

	assert.Equal(t, LevelWarn, l.GetLevel())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "degraded", logs.All()[1].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := NewNop()
	assert.Same(t, l, OrNop(l))
}
