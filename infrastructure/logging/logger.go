// Package logging builds the zap logger used across netdesign.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"netdesign/infrastructure/config"
)

// New creates a logger for the environment. The returned level can be
// changed at runtime, e.g. after a configuration reload.
func New(env config.Environment, cfg config.Logging) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atom := zap.NewAtomicLevelAt(level)

	logger, err := Build(env, cfg.Format, atom)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, atom, nil
}

// Build creates a logger writing at the given level: production settings
// for production and staging, development settings otherwise.
func Build(env config.Environment, format string, atom zap.AtomicLevel) (*zap.Logger, error) {
	var zc zap.Config
	if env == config.Production || env == config.Staging {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = atom
	zc.Encoding = format
	if zc.Encoding == "" {
		zc.Encoding = "json"
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.With(zap.String("environment", string(env))), nil
}

// ParseLevel parses a configured level name
func ParseLevel(name string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// FollowConfig returns a watcher callback that applies the configured level
func FollowConfig(atom zap.AtomicLevel, logger *zap.Logger) func(*config.Config) {
	return func(cfg *config.Config) {
		level, err := ParseLevel(cfg.Logging.Level)
		if err != nil {
			logger.Warn("Ignoring log level from reloaded configuration", zap.Error(err))
			return
		}
		if atom.Level() != level {
			atom.SetLevel(level)
			logger.Info("Log level changed", zap.String("level", level.String()))
		}
	}
}
