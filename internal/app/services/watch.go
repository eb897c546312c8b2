package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events.
const WatchDebounce = 600 * time.Millisecond

// WatchService turns filesystem activity in a working tree into coalesced
// refresh signals. It watches every directory of the working tree plus the
// git directory itself, where only index and HEAD updates count.
type WatchService struct {
	Started     bool
	Waiting     bool
	Root        string
	GitDir      string
	Paths       map[string]struct{}
	LastRefresh time.Time

	events  chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	logf    func(string, ...any)
}

// NewWatchService creates a WatchService. logf may be nil.
func NewWatchService(logf func(string, ...any)) *WatchService {
	return &WatchService{logf: logf}
}

// Start watches root and gitDir and begins forwarding events.
func (w *WatchService) Start(root, gitDir string) error {
	if w.Started {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.Started = true
	w.watcher = watcher
	w.Root = filepath.Clean(root)
	if gitDir == "" {
		gitDir = filepath.Join(w.Root, ".git")
	}
	w.GitDir = filepath.Clean(gitDir)
	w.events = make(chan struct{}, 1)
	w.done = make(chan struct{})
	w.Paths = make(map[string]struct{})

	w.addWatchDir(w.GitDir)
	w.addWatchTree(w.Root)

	go w.run()
	return nil
}

// Stop stops the watcher.
func (w *WatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.done)
	w.Started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// Events returns the coalesced refresh channel.
func (w *WatchService) Events() <-chan struct{} {
	return w.events
}

// NextEvent returns the event channel unless a wait is already pending, so
// the TUI keeps at most one listener in flight.
func (w *WatchService) NextEvent() <-chan struct{} {
	if w.events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *WatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *WatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Remaining returns how long until a refresh is allowed again, zero when it
// already is.
func (w *WatchService) Remaining(now time.Time) time.Duration {
	if w.LastRefresh.IsZero() {
		return 0
	}
	if left := WatchDebounce - now.Sub(w.LastRefresh); left > 0 {
		return left
	}
	return 0
}

// Relevant reports whether an event on path can change the status output.
func (w *WatchService) Relevant(path string) bool {
	if path == "" {
		return false
	}
	if isUnder(w.GitDir, path) {
		base := filepath.Base(path)
		return filepath.Dir(path) == w.GitDir && (base == "index" || base == "HEAD")
	}
	return isUnder(w.Root, path)
}

func isUnder(root, path string) bool {
	if root == "" {
		return false
	}
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

// Signal notifies listeners of watcher activity.
func (w *WatchService) Signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *WatchService) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 && !isUnder(w.GitDir, event.Name) {
				w.addWatchTree(event.Name)
			}
			w.Signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watcher error: %v", err)
		}
	}
}

func (w *WatchService) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.debugf("watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *WatchService) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || isUnder(w.GitDir, path) {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *WatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
