package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string
	File  string
	// Output defaults to os.Stderr.
	Output io.Writer
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON slog.Logger. When File is set, records are also written
// to a rotated log file. A log directory that cannot be created is reported on
// the returned logger and the file is skipped.
func New(cfg Config) *slog.Logger {
	var writer io.Writer = os.Stderr

	if cfg.Output != nil {
		writer = cfg.Output
	}

	options := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	if cfg.File == "" {
		return slog.New(slog.NewJSONHandler(writer, options))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		logger := slog.New(slog.NewJSONHandler(writer, options))
		logger.Warn("log file disabled, cannot create its directory",
			slog.String("file", cfg.File),
			slog.String("error", err.Error()),
		)

		return logger
	}

	writer = io.MultiWriter(writer, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // Megabytes
		MaxBackups: 3,
		MaxAge:     28, // Days
		Compress:   true,
	})

	return slog.New(slog.NewJSONHandler(writer, options))
}
