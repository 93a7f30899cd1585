package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLevels(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	for _, lvl := range []string{"", "debug", "INFO", "warn", "error", "off"} {
		require.NoError(t, Init(lvl), "level %q", lvl)
		assert.NotNil(t, Log)
	}

	assert.Error(t, Init("loud"))
}

func TestSetLoggerRoutesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Log.Info("dropped")
	Log.Warn("kept", zap.String("visual", "box"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "box", entry.ContextMap()["visual"])
}
