package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the desired logging configuration.
type Config struct {
	Level          string `yaml:"level" json:"level"`
	Format         string `yaml:"format" json:"format"`
	FilePath       string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb,omitempty" json:"file_max_size_mb,omitempty"`
	FileMaxFiles   int    `yaml:"file_max_files,omitempty" json:"file_max_files,omitempty"`
	FileMaxAgeDays int    `yaml:"file_max_age_days,omitempty" json:"file_max_age_days,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:          "info",
		Format:         "text",
		FileMaxSizeMB:  50,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

// Manager owns the logger lifecycle: a runtime-adjustable level and the
// optional rotating file writer.
type Manager struct {
	level  *slog.LevelVar
	closer io.Closer
}

// New builds a logger from cfg. Output goes to stderr, plus a rotating
// file when FilePath is set.
func New(cfg Config) (*Manager, *slog.Logger) {
	lvl := &slog.LevelVar{}
	lvl.Set(ParseLevel(cfg.Level))

	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.FileMaxSizeMB, 50),
			MaxBackups: orDefault(cfg.FileMaxFiles, 3),
			MaxAge:     orDefault(cfg.FileMaxAgeDays, 30),
		}
		w = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &Manager{level: lvl, closer: closer}, slog.New(h)
}

// SetLevel adjusts the live log level. Used by the config watcher so a
// rules-file edit can also bump verbosity without a restart.
func (m *Manager) SetLevel(level string) {
	m.level.Set(ParseLevel(level))
}

// Close releases the file writer, if any.
func (m *Manager) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch s {
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

// ValidLevel reports whether s is a recognized log level.
func ValidLevel(s string) bool {
	switch s {
	case "", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat reports whether s is a recognized log format.
func ValidFormat(s string) bool {
	switch s {
	case "", "text", "json":
		return true
	}
	return false
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
