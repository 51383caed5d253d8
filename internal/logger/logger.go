package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pettycash-ledger/internal/config"
)

// NewLogger creates the process logger writing to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := NewLoggerWithWriter(cfg, os.Stdout)
	logger.Info("logger initialized", "level", ParseLevel(cfg.Logging.Level), "service", cfg.Application.Name)
	return logger
}

// NewLoggerWithWriter builds a logger for cfg on an arbitrary writer
func NewLoggerWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Logging.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a LOG_LEVEL value onto a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
