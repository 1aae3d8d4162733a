// Package utils configures structured logging for the application.
package utils

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// SetupLogger installs a colored slog handler as the default logger, at the
// level named by the LOG_LEVEL environment variable (default: info).
func SetupLogger() {
	SetupLoggerWithLevel(levelFromEnv())
}

// SetupLoggerWithLevel installs the handler at an explicit level.
func SetupLoggerWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
