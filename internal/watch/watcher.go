// Package watch re-runs a copy whenever an editor integration rewrites its
// snapshot file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler is invoked once per settled burst of writes to the watched file
type Handler func(ctx context.Context) error

// DefaultDebounce is used when the configured debounce is zero
const DefaultDebounce = 200 * time.Millisecond

// SnapshotWatcher watches a single file. Events are collected per burst and
// the handler runs on the watcher goroutine, so invocations never overlap.
type SnapshotWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	handler  Handler
	logger   *zap.Logger

	pending  bool
	lastSeen time.Time
	runs     int

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a watcher for path. The parent directory is watched so that
// editors which replace the file atomically are still observed.
func New(path string, debounce time.Duration, handler Handler, logger *zap.Logger) (*SnapshotWatcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch handler cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &SnapshotWatcher{
		watcher:  w,
		path:     filepath.Clean(abs),
		debounce: debounce,
		handler:  handler,
		logger:   logger.With(zap.String("snapshot", abs)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directory is registered. A
// watcher whose Start failed cannot be started again.
func (sw *SnapshotWatcher) Start(ctx context.Context) error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = true
	sw.mu.Unlock()

	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		sw.mu.Lock()
		sw.running = false
		sw.mu.Unlock()
		sw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	sw.logger.Info("watching snapshot", zap.Duration("debounce", sw.debounce))

	go sw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for an in-flight handler to finish
func (sw *SnapshotWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.doneCh

	if err := sw.watcher.Close(); err != nil {
		sw.logger.Error("error closing watcher", zap.Error(err))
	}
	sw.logger.Info("watcher stopped")
}

// Done is closed when the event loop exits
func (sw *SnapshotWatcher) Done() <-chan struct{} {
	return sw.doneCh
}

// Runs reports how many times the handler has been invoked
func (sw *SnapshotWatcher) Runs() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.runs
}

func (sw *SnapshotWatcher) run(ctx context.Context) {
	defer close(sw.doneCh)

	tick := sw.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-sw.stopCh:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleEvent(event)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Error("watcher error", zap.Error(err))

		case <-ticker.C:
			sw.processSettled(ctx)
		}
	}
}

func (sw *SnapshotWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != sw.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	sw.logger.Debug("snapshot event", zap.String("op", event.Op.String()))

	sw.mu.Lock()
	sw.pending = true
	sw.lastSeen = time.Now()
	sw.mu.Unlock()
}

func (sw *SnapshotWatcher) processSettled(ctx context.Context) {
	sw.mu.Lock()
	if !sw.pending || time.Since(sw.lastSeen) < sw.debounce {
		sw.mu.Unlock()
		return
	}
	sw.pending = false
	sw.runs++
	sw.mu.Unlock()

	if err := sw.handler(ctx); err != nil {
		sw.logger.Warn("snapshot handler failed", zap.Error(err))
	}
}
