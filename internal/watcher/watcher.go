// Package watcher monitors directories and delivers newly arrived PDFs, one path at a
// time, once they have finished being written.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"retitle/internal/output"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce        time.Duration // quiet period after the last event for a path
	StableThreshold time.Duration // how long the file size must hold still
	IgnorePatterns  []string      // glob patterns of temporary files
	Recursive       bool          // also watch subdirectories, including new ones
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce:        2 * time.Second,
		StableThreshold: time.Second,
		IgnorePatterns:  DefaultIgnorePatterns(),
	}
}

// Watcher turns filesystem events into a stream of document paths.
type Watcher struct {
	config    WatchConfig
	log       *output.Output
	filter    *FileFilter
	stability *StabilityChecker
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	paths chan string
	wg    sync.WaitGroup

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	closing  bool
	handled  map[string]bool
	inFlight map[string]bool
}

// New creates a Watcher. A nil log discards messages.
func New(config WatchConfig, log *output.Output) *Watcher {
	if log == nil {
		log = output.Discard()
	}
	return &Watcher{
		config:    config,
		log:       log,
		filter:    NewFileFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(config.StableThreshold),
		handled:   make(map[string]bool),
		inFlight:  make(map[string]bool),
	}
}

// Start watches dirs and returns the channel of settled document paths. The channel is
// closed after ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, dirs []string) (<-chan string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w.fsWatcher = fsw

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err == nil {
			err = w.addDir(abs)
		}
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.paths = make(chan string)
	w.debouncer = NewDebouncer(w.config.Debounce, w.settle)

	w.wg.Add(1)
	go w.processEvents()

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		w.closing = true
		w.mu.Unlock()
		w.debouncer.Stop()
		w.fsWatcher.Close()
		w.wg.Wait()
		close(w.paths)
	}()

	return w.paths, nil
}

// Stop ends the watch session. The path channel closes once in-flight work drains.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// MarkHandled stops path from being delivered, now or later. The caller uses it for the
// names it renames files to inside a watched directory.
func (w *Watcher) MarkHandled(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.mu.Lock()
	w.handled[path] = true
	w.mu.Unlock()
}

func (w *Watcher) addDir(dir string) error {
	if !w.config.Recursive {
		return w.fsWatcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) && w.config.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDir(event.Name); err != nil {
				w.log.Warn("cannot watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.filter.Accept(event.Name) {
		return
	}
	w.mu.Lock()
	skip := w.handled[event.Name]
	w.mu.Unlock()
	if skip {
		return
	}

	w.log.Debug("event %s on %s", event.Op, event.Name)
	w.debouncer.Add(event.Name)
}

// settle runs after a path's debounce period. It waits for the file to stop changing and
// then hands it to the consumer.
func (w *Watcher) settle(path string) {
	w.mu.Lock()
	if w.closing || w.handled[path] || w.inFlight[path] {
		w.mu.Unlock()
		return
	}
	w.inFlight[path] = true
	w.wg.Add(1)
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inFlight, path)
		w.mu.Unlock()
		w.wg.Done()
	}()

	if err := w.stability.Wait(w.ctx, path); err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Warn("skipping %s: %v", path, err)
		}
		return
	}

	w.mu.Lock()
	w.handled[path] = true
	w.mu.Unlock()

	select {
	case w.paths <- path:
	case <-w.ctx.Done():
	}
}
