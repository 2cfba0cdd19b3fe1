package cleanup

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Guard watches the scanned roots during an apply pass and remembers every
// path that saw activity after the plan was built. The executor skips
// touched items with reason "active" instead of removing them.
//
// Watching is best effort. Roots that cannot be watched are simply not
// guarded, and fsnotify does not recurse, so only direct children of the
// watched roots report events. An unguarded item still goes through the
// executor's existence and permission re-checks; the guard narrows the
// plan-to-apply window, it does not carry the safety story alone.
type Guard struct {
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	touched map[string]struct{}
}

// NewGuard starts watching the given directories.
func NewGuard(roots []string) (*Guard, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	g := &Guard{
		watcher: w,
		done:    make(chan struct{}),
		touched: make(map[string]struct{}),
	}
	for _, root := range roots {
		// Unwatchable roots (gone, unreadable) are left unguarded.
		_ = w.Add(root)
	}
	go g.pump()
	return g, nil
}

func (g *Guard) pump() {
	defer close(g.done)
	for {
		select {
		case ev, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			// Write, create and chmod mean someone is using the path.
			// Remove and rename are what our own removals produce and
			// carry no signal.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) != 0 {
				g.mark(ev.Name)
			}
		case _, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (g *Guard) mark(path string) {
	g.mu.Lock()
	g.touched[filepath.Clean(path)] = struct{}{}
	g.mu.Unlock()
}

// Touched reports whether path, or anything recorded beneath it, saw
// activity since the guard started.
func (g *Guard) Touched(path string) bool {
	path = filepath.Clean(path)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.touched[path]; ok {
		return true
	}
	prefix := path + string(filepath.Separator)
	for p := range g.touched {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Close stops watching and waits for the event pump to drain.
func (g *Guard) Close() error {
	err := g.watcher.Close()
	<-g.done
	return err
}
