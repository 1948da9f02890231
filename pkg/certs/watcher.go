package certs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval collapses bursts of writes (key then chain, or a
// temp file followed by a rename) into a single refresh.
const DefaultDebounceInterval = 500 * time.Millisecond

// dirWatcher reports changes inside one directory.
type dirWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	logger   *slog.Logger
	debounce *debouncer
}

func newDirWatcher(dir string, interval time.Duration, logger *slog.Logger) (*dirWatcher, error) {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	return &dirWatcher{
		watcher:  w,
		dir:      dir,
		logger:   logger,
		debounce: newDebouncer(interval),
	}, nil
}

// run calls onChange after each quiet period following a relevant event,
// until ctx is cancelled.
func (dw *dirWatcher) run(ctx context.Context, onChange func()) {
	defer dw.close()

	dw.logger.Info("certificate watcher started", "path", dw.dir)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			dw.logger.Debug("certificate file event", "path", event.Name, "op", event.Op.String())
			dw.debounce.trigger(onChange)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Error("certificate watcher error", "error", err)
		}
	}
}

func (dw *dirWatcher) close() {
	dw.debounce.stop()
	if err := dw.watcher.Close(); err != nil {
		dw.logger.Warn("failed to close certificate watcher", "error", err)
	}
}

// relevant filters out chmod-only events and editor or autocert temp files.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	// autocert.DirCache writes "<key>.tmp<random>" and renames it into place.
	return !strings.Contains(base, ".tmp")
}

// debouncer runs the latest callback once no trigger has arrived for interval.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
