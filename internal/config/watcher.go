package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ciciliostudio/hub/internal/logging"
)

const watchDebounce = 500 * time.Millisecond

// Watcher monitors the config file and reloads it when edited, so a
// running session picks up server or UI changes without a restart.
type Watcher struct {
	loader  *Loader
	path    string
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	watching  bool
	pendingAt time.Time

	onReload func(*Config)
}

// NewWatcher creates a watcher for the config file the loader resolves
// to. The callback receives each successfully reloaded config.
func NewWatcher(loader *Loader, onReload func(*Config)) (*Watcher, error) {
	path, err := loader.findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("cannot watch config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		loader:   loader,
		path:     path,
		watcher:  fw,
		onReload: onReload,
	}, nil
}

// Start blocks watching for edits until the context is cancelled.
// Editors replace rather than rewrite the file, so the parent
// directory is watched and events are debounced before reloading.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	logging.Debug("config: watching %s", w.path)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.isConfigEvent(event) {
				continue
			}
			w.mu.Lock()
			w.pendingAt = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logging.Warn("config: watcher error: %v", err)

		case <-ticker.C:
			w.reloadIfSettled()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watching {
		w.watcher.Close()
		w.watching = false
	}
}

// IsWatching reports whether the watcher is active.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}

// reloadIfSettled reloads once a pending edit is past the debounce
// window. A reload that fails validation keeps the previous config and
// only logs, so a half-saved file never breaks the running session.
func (w *Watcher) reloadIfSettled() {
	w.mu.Lock()
	pending := w.pendingAt
	if pending.IsZero() || time.Since(pending) < watchDebounce {
		w.mu.Unlock()
		return
	}
	w.pendingAt = time.Time{}
	w.mu.Unlock()

	cfg, err := w.loader.Load()
	if err != nil {
		logging.Warn("config: reload skipped: %v", err)
		return
	}

	logging.Info("config: reloaded %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
