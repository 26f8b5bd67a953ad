// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches the search roots, filters out tool-private and editor
// scratch files, and debounces rapid events (the engine and editors often write
// a program several times per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".brkit":       true,
	".vscode":      true,
	".idea":        true,
	"node_modules": true,
}

// File names/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".tmp":      true,
	".bak":      true,
	"~":         true,
}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	exited  chan struct{} // closed when the event loop returns
	started bool
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:     fw,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}, nil
}

// Watch starts monitoring every root recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(roots []string, onChange func(filePath string)) error {
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}

	w.mu.Lock()
	if w.started || w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	go w.loop(onChange)
	return nil
}

// addTree walks root and adds all directories.
func (w *Watcher) addTree(root string) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}
	return filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if shouldIgnoreDir(info.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop(onChange func(filePath string)) {
	defer close(w.exited)

	// Debounce state: last event time per file. Only this goroutine touches it.
	debounce := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories join the watch list.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !shouldIgnoreDir(info.Name()) {
						w.fw.Add(path)
					}
					continue
				}
			}

			if shouldIgnorePath(path) {
				continue
			}

			now := time.Now()
			if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
				continue
			}
			debounce[path] = now

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				onChange(path)
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Errors are swallowed; fsnotify recovers automatically

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources. It waits for the event
// loop to exit, so no callback runs after Stop returns.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	if started {
		<-w.exited
	}
	return err
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	if ignoreFiles[base] {
		return true
	}
	for suffix := range ignoreFiles {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	// Any ignored directory along the path disqualifies it.
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	return false
}
