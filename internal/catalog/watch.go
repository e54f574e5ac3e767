package catalog

import (
	"os"
	"path/filepath"
	"time"
)

// FileWatcher polls the YAML files of a directory and calls onChange with
// the path of every file that was added, modified, or removed.
type FileWatcher struct {
	Dir       string
	Interval  time.Duration
	onChange  func(string)
	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for dir's *.yaml files.
func NewFileWatcher(dir string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Dir:       dir,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// WatchLoader starts a watcher that drops l's cache whenever a set file
// changes. notify, if not nil, sees each changed path.
func WatchLoader(l *Loader, interval time.Duration, notify func(string)) *FileWatcher {
	w := NewFileWatcher(l.Paths().SetsDir(), interval, func(path string) {
		l.Invalidate()
		if notify != nil {
			notify(path)
		}
	})
	w.Start()
	return w
}

// Start begins polling in a goroutine.
func (w *FileWatcher) Start() {
	// prime before returning so edits right after Start are seen
	w.scan(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

// scan compares mtimes with the previous scan. Only the polling goroutine
// calls it after Start.
func (w *FileWatcher) scan(prime bool) {
	paths, _ := filepath.Glob(filepath.Join(w.Dir, "*.yaml"))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (ok && !mt.After(last)) {
			continue
		}
		w.fire(p)
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			if !prime {
				w.fire(p)
			}
		}
	}
}

func (w *FileWatcher) fire(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}
