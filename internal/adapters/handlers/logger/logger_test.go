package logger

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandlerLogsRecord(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctor := Constructor(zap.New(core))

	handler, err := ctor(map[string]any{"level": "WARNING"})
	require.NoError(t, err)

	record := domain.NewRecord("S", "B", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, handler.Handle(context.Background(), record))

	entries := logs.FilterMessage("received record").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "handler", entries[0].LoggerName)
	assert.Equal(t, map[string]interface{}{
		"subject":   "S",
		"body":      "B",
		"timestamp": "2024-01-01T00:00:00Z",
	}, entries[0].ContextMap())
}

func TestHandlerRespectsLoggerLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	handler := New(zap.New(core), zapcore.DebugLevel)

	require.NoError(t, handler.Handle(context.Background(), domain.NewRecord("S", "B", time.Now())))
	assert.Zero(t, logs.Len())
}

func TestConstructorRejectsBadParams(t *testing.T) {
	t.Parallel()

	ctor := Constructor(nil)

	_, err := ctor(map[string]any{"level": "loud"})
	assert.ErrorIs(t, err, domain.ErrHandlerMisconfigured)

	_, err = ctor(map[string]any{"format": "json"})
	assert.ErrorIs(t, err, domain.ErrHandlerMisconfigured)

	handler, err := ctor(nil)
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestConstructorCapsLevelAtError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	handler, err := Constructor(zap.New(core))(map[string]any{"level": "CRITICAL"})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), domain.NewRecord("S", "B", time.Now())))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}
