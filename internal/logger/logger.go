// Package logger holds the structured logger shared by every engine package.
// Log defaults to a no-op logger so library users opt in to output with Init or SetLogger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the engine-wide logger. It is never nil.
var Log = zap.NewNop()

// Init replaces Log with a console logger at the given level.
// Accepted levels are "debug", "info", "warn", "error" and "off"; an empty level means "info".
//
// Parameters:
//   - level: the minimum level to emit
//
// Returns:
//   - error: error if the level is not recognised or the logger cannot be built
func Init(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "off" {
		SetLogger(nil)
		return nil
	}
	if level == "" {
		level = "info"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger swaps the engine-wide logger. Passing nil restores the no-op logger.
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
