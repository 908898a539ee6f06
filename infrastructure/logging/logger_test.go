package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"netdesign/infrastructure/config"
)

func TestNew(t *testing.T) {
	logger, atom, err := New(config.Production, config.Logging{Level: "warn", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, zapcore.WarnLevel, atom.Level())
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, _, err = New(config.Development, config.Logging{Level: "chatty", Format: "console"})
	assert.Error(t, err)
}

func TestFollowConfig(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	follow := FollowConfig(atom, zap.New(core))

	follow(&config.Config{Logging: config.Logging{Level: "debug"}})
	assert.Equal(t, zapcore.DebugLevel, atom.Level())
	assert.Equal(t, 1, logs.FilterMessage("Log level changed").Len())

	follow(&config.Config{Logging: config.Logging{Level: "debug"}})
	assert.Equal(t, 1, logs.FilterMessage("Log level changed").Len())

	follow(&config.Config{Logging: config.Logging{Level: "nope"}})
	assert.Equal(t, zapcore.DebugLevel, atom.Level())
	assert.Equal(t, 1, logs.FilterMessage("Ignoring log level from reloaded configuration").Len())
}
