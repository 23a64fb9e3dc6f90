// Package logging builds the zap loggers used across the service
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum level: debug, info, warn or error
	Level string `mapstructure:"level"`

	// Development switches to a human readable console encoder
	Development bool `mapstructure:"development"`
}

// DefaultConfig returns an info level production configuration
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// New builds a logger from config
func New(config Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(config.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if config.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Must is like New but falls back to a no-op logger on error
func Must(config Config) *zap.Logger {
	logger, err := New(config)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
