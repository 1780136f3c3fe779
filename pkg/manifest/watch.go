package manifest

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external modifications to the manifest file between a
// Load and a Save. It is best effort: presentation layers use it to show
// a staleness warning, never to gate a save (Save re-reads the file fresh
// regardless).
type Watcher struct {
	fw     *fsnotify.Watcher
	path   string
	events chan struct{}
	done   chan struct{}
}

// WatchFile starts watching the manifest's directory for writes to the
// manifest itself. Watching the directory rather than the file survives
// the atomic rename-replace this package performs on save.
func WatchFile(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		path:   filepath.Clean(path),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events signals (coalesced) whenever the manifest is written, created,
// or renamed by anyone, including this process. Callers that just saved
// drain one event themselves. The channel is closed when the watcher
// shuts down, so receivers unblock after Close.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default: // already pending, coalesce
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal for a staleness hint.
		}
	}
}
