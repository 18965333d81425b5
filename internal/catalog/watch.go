package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"course-planner/internal/shared/telemetry"
)

const defaultDebounce = 200 * time.Millisecond

// WatcherConfig configures a dataset file watcher.
type WatcherConfig struct {
	// Path is the dataset file on disk.
	Path string

	// DebounceDelay is how long to wait for more changes before notifying.
	DebounceDelay time.Duration

	// OnChange runs once per burst of changes to Path.
	OnChange func()
}

// Watcher invalidates a catalog when its dataset file changes. Editors often
// replace files by rename, so the parent directory is watched and events are
// filtered by file name.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a watcher for cfg.Path.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = defaultDebounce
	}
	if cfg.OnChange == nil {
		cfg.OnChange = func() {}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{config: cfg, watcher: fsw, done: make(chan struct{})}, nil
}

// Watch starts a watcher that invalidates s whenever path changes.
func (s *Source) Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	w, err := NewWatcher(WatcherConfig{Path: path, DebounceDelay: debounce, OnChange: s.Invalidate})
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.watcher.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching. Events are processed until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.config.Path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	go w.processEvents(ctx)
	telemetry.Info("catalog.watch_started", map[string]any{
		"path":        w.config.Path,
		"debounce_ms": w.config.DebounceDelay.Milliseconds(),
	})
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	name := filepath.Base(w.config.Path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.config.DebounceDelay)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			telemetry.Error("catalog.watch_error", map[string]any{"error": err.Error()})

		case <-fire:
			fire = nil
			telemetry.Info("catalog.dataset_changed", map[string]any{"path": w.config.Path})
			w.config.OnChange()
		}
	}
}
