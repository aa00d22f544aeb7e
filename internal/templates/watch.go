package templates

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Watch calls fn with the reloaded set after path changes, until ctx ends.
// The parent directory is watched so editors that replace the file by rename
// are still seen. Files that fail to parse are logged and skipped.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(context.Context, Set) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("templates: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("templates: watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("templates: watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("template watcher error", "error", err)
		case <-timer.C:
			set, err := Load(abs)
			if err != nil {
				logger.Warn("template reload skipped", "path", abs, "error", err)
				continue
			}
			if err := fn(ctx, set); err != nil {
				logger.Error("template reload failed", "path", abs, "error", err)
				continue
			}
			logger.Info("templates reloaded", "path", abs, "keys", len(set))
		}
	}
}
