package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"", "debug", "info", "warn", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	if ValidLevel("loud") {
		t.Error(`ValidLevel("loud") = true, want false`)
	}
}

func TestValidFormat(t *testing.T) {
	for _, s := range []string{"", "text", "json"} {
		if !ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = false, want true", s)
		}
	}
	if ValidFormat("xml") {
		t.Error(`ValidFormat("xml") = true, want false`)
	}
}

func TestManagerSetLevel(t *testing.T) {
	m, logger := New(Config{Level: "error", Format: "text"})
	defer m.Close() //nolint:errcheck

	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled at error level")
	}
	m.SetLevel("debug")
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug not enabled after SetLevel")
	}
}

func TestManagerCloseWithoutFile(t *testing.T) {
	m, _ := New(DefaultConfig())
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestManagerFileWriter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "shoreline.log")
	cfg.Format = "json"

	m, logger := New(cfg)
	logger.Info("hello")
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
