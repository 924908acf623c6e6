package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Next after Close.
var ErrWatcherClosed = errors.New("watcher closed")

const settleDelay = 150 * time.Millisecond

// Watcher reports changes to one file. It watches the parent directory so files
// replaced by rename (as many editors save) are still seen.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{w: w, path: abs}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Next blocks until the file is written or recreated. Bursts of events within a
// short window are folded into one.
func (w *Watcher) Next() error {
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.settle()
			return nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) settle() {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-w.w.Events:
			if !ok {
				return
			}
		case <-timer.C:
			return
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}
