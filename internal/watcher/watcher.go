package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sydlexius/shoreline/internal/config"
	"github.com/sydlexius/shoreline/internal/rules"
)

// Service watches the configuration file and republishes the compiled rule
// table when it changes. Edits that fail validation are logged and the
// previous table stays live, so a bad save never takes the engine down.
type Service struct {
	path     string
	handle   *rules.Handle
	logger   *slog.Logger
	debounce time.Duration

	// onReload, when set, receives the freshly loaded config after a
	// successful reload (log level adjustments, budget changes).
	onReload func(*config.Config)
}

// NewService creates a config-file watcher publishing into handle.
func NewService(path string, handle *rules.Handle, logger *slog.Logger) *Service {
	return &Service{
		path:     path,
		handle:   handle,
		logger:   logger.With("component", "config-watcher"),
		debounce: 500 * time.Millisecond,
	}
}

// SetDebounce overrides the default debounce interval (for testing).
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// OnReload registers a callback invoked after each successful reload.
func (s *Service) OnReload(fn func(*config.Config)) {
	s.onReload = fn
}

// Start blocks until ctx is canceled. Editors replace config files rather
// than writing in place, so the watch is on the parent directory and events
// are filtered by name; writes are coalesced through a debounce timer.
func (s *Service) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return err
	}
	s.logger.Info("config watcher starting", "path", s.path)

	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	reloadPending := false

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("config watcher stopping")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(s.debounce)
			reloadPending = true

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("fsnotify error", "error", err)

		case <-debounceTimer.C:
			if reloadPending {
				reloadPending = false
				s.reload()
			}
		}
	}
}

// reload revalidates and recompiles the rule set, swapping the live table
// only on success.
func (s *Service) reload() {
	cfg, table, err := config.Load(s.path)
	if err != nil {
		s.logger.Error("config reload rejected, keeping previous rules", "error", err)
		return
	}

	s.handle.Swap(table)
	s.logger.Info("naming rules reloaded",
		"title_filters", len(table.TitleFilters),
		"series_suffixes", len(table.SeriesSuffixes),
		"author_roles", len(table.AuthorRoles),
	)

	if s.onReload != nil {
		s.onReload(cfg)
	}
}
