package stub

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/darkawower/themeshift/internal/platform"
)

// FileWatcher implements platform.WatchService by diffing the settings file
// each time it is replaced.
type FileWatcher struct {
	backend *FileBackend
}

// NewFileWatcher creates a watcher for backend's file.
func NewFileWatcher(backend *FileBackend) *FileWatcher {
	return &FileWatcher{backend: backend}
}

// Watch calls fn for each key in keys whose raw value differs from the
// previous observation. The parent directory is watched because the file is
// replaced rather than rewritten in place.
func (w *FileWatcher) Watch(keys []string, fn func(key string)) (platform.Subscription, error) {
	dir := filepath.Dir(w.backend.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	last, err := w.backend.Snapshot(keys)
	if err != nil {
		last = map[string]string{}
	}

	go func() {
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.backend.Path() {
					continue
				}
				current, err := w.backend.Snapshot(keys)
				if err != nil {
					continue
				}
				for _, key := range changedKeys(keys, last, current) {
					fn(key)
				}
				last = current
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	var once sync.Once
	return platform.SubscriptionFunc(func() error {
		var err error
		once.Do(func() { err = fw.Close() })
		return err
	}), nil
}

func changedKeys(keys []string, before, after map[string]string) []string {
	var changed []string
	for _, k := range keys {
		b, hadBefore := before[k]
		a, hasAfter := after[k]
		if hadBefore != hasAfter || a != b {
			changed = append(changed, k)
		}
	}
	return changed
}
