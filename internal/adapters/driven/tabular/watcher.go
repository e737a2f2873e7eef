package tabular

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// debounceWindow coalesces the burst of filesystem events a single file save
// produces into one change notification.
const debounceWindow = time.Second

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// Watcher notifies about changes to the CSV sources. File paths are watched
// through their parent directory because editors replace files on save,
// which would silently detach a direct file watch.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changes chan string
	limiter *rate.Limiter

	// files holds the exact paths to match when a file was requested.
	// Read-only after construction.
	files map[string]struct{}
}

// NewWatcher starts watching the given paths. Each path may be a directory
// (all CSV files inside) or a single file.
func NewWatcher(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		changes: make(chan string, 1),
		limiter: rate.NewLimiter(rate.Every(debounceWindow), 1),
		files:   make(map[string]struct{}),
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		dir := p
		if !info.IsDir() {
			abs, err := filepath.Abs(p)
			if err != nil {
				fsw.Close()
				return nil, fmt.Errorf("watching %s: %w", p, err)
			}
			w.files[abs] = struct{}{}
			dir = filepath.Dir(p)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

// Changes returns the channel change notifications arrive on. The value is
// the path that changed. The channel closes when the watcher is closed.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching and closes the changes channel.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				close(w.changes)
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			select {
			case w.changes <- ev.Name:
			default:
				// Consumer is mid-recalculation; it will pick up the state
				// on the buffered notification.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				close(w.changes)
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// relevant filters events to content changes of CSV sources. Chmod-only
// events never affect the data.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if abs, err := filepath.Abs(ev.Name); err == nil {
		if _, ok := w.files[abs]; ok {
			return true
		}
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".csv")
}
