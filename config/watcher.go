package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/casual-mw/casual/errors"
)

// ReloadCallback is invoked with the newly loaded configuration whenever
// the watched file changes. Domain Manager uses this to apply scaling and
// routing-table changes without a restart (SPEC_FULL config section).
type ReloadCallback func(*Config) error

// Watcher watches a config file and debounces rapid successive writes
// (editors often write a file in two or three syscalls) before invoking
// registered callbacks with the freshly reloaded Config.
type Watcher struct {
	path      string
	fsw       *fsnotify.Watcher
	mu        sync.Mutex
	callbacks []ReloadCallback
	debounce  time.Duration
	timer     *time.Timer
}

// NewWatcher starts watching path for changes.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "config: new fsnotify watcher")
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "config: watch %s", path)
	}
	w := &Watcher{path: path, fsw: fsw, debounce: 500 * time.Millisecond}
	go w.run()
	return w, nil
}

// OnReload registers a callback fired after each debounced reload.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleReload()
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	Reset()
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	callbacks := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		_ = cb(cfg)
	}
}
