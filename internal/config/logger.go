package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelVar returns a dynamic level so a running server can change verbosity
// when the config file is edited.
func LevelVar(level string) *slog.LevelVar {
	lv := new(slog.LevelVar)
	lv.Set(ParseLogLevel(level))
	return lv
}

// InitLogger builds the process logger and installs it as the slog default.
// Logs go to a rotated file unless File is "-", which means stderr.
func InitLogger(cfg *LoggingConfig, level *slog.LevelVar) (*slog.Logger, error) {
	if cfg.File == "" {
		cfg.File = DefaultLogFile()
	}
	toStderr := cfg.File == "-"

	var writer io.Writer = os.Stderr
	if !toStderr {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch {
	case strings.EqualFold(cfg.Format, "json"):
		handler = slog.NewJSONHandler(writer, opts)
	case cfg.Color && toStderr:
		opts.ReplaceAttr = colorLevel
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// DefaultLogFile is $XDG_STATE_HOME/mizunime/mizunime.log
func DefaultLogFile() string {
	return filepath.Join(getStateDir(), appName, appName+".log")
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "90",
	slog.LevelInfo:  "32",
	slog.LevelWarn:  "33",
	slog.LevelError: "31",
}

// colorLevel paints the top-level level field with its ANSI color
func colorLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	code, ok := levelColors[level]
	if !ok {
		return a
	}
	return slog.String(a.Key, "\033["+code+"m"+level.String()+"\033[0m")
}

// ParseLogLevel maps a config string to a slog level, defaulting to info
func ParseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
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
