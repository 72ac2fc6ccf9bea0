package config

import (
	"log/slog"
	"os"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the application logger. Production (GO_ENV=production)
// emits JSON; everything else emits text. LOG_LEVEL picks the minimum level,
// defaulting to info.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if l, ok := logLevels[strings.ToLower(os.Getenv("LOG_LEVEL"))]; ok {
		level = l
	}
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
