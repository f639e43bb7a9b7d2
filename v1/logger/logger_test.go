package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, zapLevel(Debug))
	assert.Equal(t, zap.InfoLevel, zapLevel(Info))
	assert.Equal(t, zap.WarnLevel, zapLevel(Warning))
	assert.Equal(t, zap.ErrorLevel, zapLevel(Error))
	assert.Equal(t, zap.InfoLevel, zapLevel("production"))
}

func TestFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Zap: zap.New(core)}

	l.Error("Upsert failed", errors.New("boom"), map[string]interface{}{"collection": "files"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "Upsert failed", entries[0].Message)
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "files", ctx["collection"])
	}
}

func TestNewLoggerClient(t *testing.T) {
	l := NewLoggerClient(Config{Level: Debug, ServiceName: "test"})
	assert.NotNil(t, l.Zap)
	assert.True(t, l.Zap.Core().Enabled(zapcore.DebugLevel))
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Info("nothing", nil, nil)
	})
}
