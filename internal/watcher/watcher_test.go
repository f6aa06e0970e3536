package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/shoreline/internal/config"
	"github.com/sydlexius/shoreline/internal/rules"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// startService runs the watcher until the test ends.
func startService(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Start: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop on context cancel")
		}
	})
	// Give fsnotify a moment to register the directory watch before the
	// test writes the file.
	time.Sleep(50 * time.Millisecond)
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestReloadSwapsTableOnValidEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "naming:\n  drop_priority: [arc, author, year]\n")

	_, table, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	handle := rules.NewHandle(table)

	s := NewService(path, handle, discardLogger())
	s.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan *config.Config, 1)
	s.OnReload(func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	startService(t, s)

	writeConfig(t, path, "naming:\n  drop_priority: [year]\npath:\n  max_length: 200\n")

	if !waitFor(t, func() bool {
		dp := handle.Current().DropPriority
		return len(dp) == 1 && dp[0] == "year"
	}) {
		t.Fatalf("table not swapped, DropPriority = %v", handle.Current().DropPriority)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Path.MaxLength != 200 {
			t.Errorf("reloaded MaxLength = %d, want 200", cfg.Path.MaxLength)
		}
	case <-time.After(5 * time.Second):
		t.Error("OnReload callback never fired")
	}
}

func TestReloadKeepsPreviousTableOnInvalidEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "naming:\n  drop_priority: [arc]\n")

	_, table, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	handle := rules.NewHandle(table)

	s := NewService(path, handle, discardLogger())
	s.SetDebounce(20 * time.Millisecond)

	attempted := make(chan struct{}, 1)
	s.OnReload(func(*config.Config) {
		select {
		case attempted <- struct{}{}:
		default:
		}
	})

	startService(t, s)

	// An edit that fails rule compilation must not disturb the live table.
	writeConfig(t, path, "naming:\n  title_filters:\n    - regex: \"([\"\n")

	time.Sleep(200 * time.Millisecond)
	if dp := handle.Current().DropPriority; len(dp) != 1 || dp[0] != "arc" {
		t.Fatalf("invalid edit disturbed the live table, DropPriority = %v", dp)
	}

	// Follow with a valid edit; once it lands we know the invalid one was
	// already processed and rejected.
	writeConfig(t, path, "naming:\n  drop_priority: [author]\n")

	if !waitFor(t, func() bool {
		dp := handle.Current().DropPriority
		return len(dp) == 1 && dp[0] == "author"
	}) {
		t.Fatalf("valid follow-up edit never landed, DropPriority = %v", handle.Current().DropPriority)
	}
	<-attempted
}

func TestStartIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "naming:\n  drop_priority: [arc]\n")

	_, table, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	handle := rules.NewHandle(table)

	s := NewService(path, handle, discardLogger())
	s.SetDebounce(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	s.OnReload(func(*config.Config) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	startService(t, s)

	writeConfig(t, filepath.Join(dir, "other.yaml"), "unrelated: true\n")

	select {
	case <-fired:
		t.Error("sibling file write triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}
