package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file whenever it changes.
type Watcher struct {
	path     string
	onChange func(*Config)
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher watches path. The parent directory is watched so that editors
// which replace the file on save are still seen.
func NewWatcher(path string, onChange func(*Config), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run delivers reloaded configs until ctx is done. Invalid files are logged
// and skipped.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := LoadFrom(w.path)
			if err != nil {
				w.logger.Warn("Ignoring unreadable config change", "path", w.path, "error", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				w.logger.Warn("Ignoring invalid config change", "path", w.path, "error", err)
				continue
			}

			w.logger.Info("Config reloaded", "path", w.path, "configured", cfg.Configured())
			w.onChange(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}
