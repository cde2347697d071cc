package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeCallback is called after an external writer replaced the todo
// store (e.g. the batch command path while the TUI is open).
type ChangeCallback func()

// Watcher monitors the todo store file for writes by other processes.
// Events inside the self-write suppression window after our own save
// are ignored; the rest are debounced before the callback fires, since
// one logical write can surface as several filesystem events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    *Files
	callback ChangeCallback
	debounce time.Duration
	suppress time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	cancel context.CancelFunc
}

// NewWatcher creates a watcher over the todo store of files.
// The data directory (not the file) is watched, so atomic
// rename-replace writes are still observed.
func NewWatcher(files *Files, debounce, suppress time.Duration, logger *zap.Logger, callback ChangeCallback) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(files.TodosPath())); err != nil {
		fsw.Close()
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fsw,
		files:    files,
		callback: callback,
		debounce: debounce,
		suppress: suppress,
		logger:   logger,
	}, nil
}

// Start begins watching for file changes
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", zap.Error(err))
			}
		}
	}()
}

// Stop stops watching for file changes
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.watcher.Close()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.files.TodosPath() {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	// Our own save just landed; not an external change
	if time.Since(w.files.LastWrite()) < w.suppress {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	if w.callback != nil {
		w.callback()
	}
}
