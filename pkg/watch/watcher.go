package watch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/TpouHuK/halstead-js/pkg/config"
	"github.com/TpouHuK/halstead-js/pkg/parser"
)

// DefaultDebounce is used when NewWatcher is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the files that settled since the last call, sorted.
type ChangeFunc func(ctx context.Context, files []string)

// Watcher monitors a directory tree and reports changed sources in batches
// once they have been quiet for the debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	onChange  ChangeFunc
	out       io.Writer

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher creates a new file watcher rooted at root.
func NewWatcher(root string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      root,
		out:       os.Stdout,
		pending:   make(map[string]time.Time),
	}, nil
}

// OnChange sets the function called with each settled batch.
func (w *Watcher) OnChange(fn ChangeFunc) {
	w.onChange = fn
}

// SetOutput redirects status messages. nil silences them.
func (w *Watcher) SetOutput(out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	w.out = out
}

// addTree registers dir and its subdirectories, skipping excluded ones.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excludedDir(name string) bool {
	for _, excluded := range w.config.Exclude.Dirs {
		if name == excluded {
			return true
		}
	}
	return false
}

// Start watches until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(w.out, "Watching for changes in %s...\n", w.root)
	color.New(color.FgCyan).Fprintln(w.out, "Press Ctrl+C to stop")

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgRed).Fprintf(w.out, "Watch error: %v\n", err)
		}
	}
}

// handleEvent records writes and creates of supported sources. New
// directories are added to the watch list.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	path := event.Name
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.excludedDir(info.Name()) {
				_ = w.addTree(path)
			}
			return
		}
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	if w.config.ShouldExclude(rel) {
		return
	}
	if parser.DetectLanguage(path) == parser.LangUnknown {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(max(w.debounce/5, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ready := w.takeReady(time.Now()); len(ready) > 0 && w.onChange != nil {
				w.report(ready)
				w.onChange(ctx, ready)
			}
		}
	}
}

// takeReady removes and returns the files quiet for at least the debounce period.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

func (w *Watcher) report(files []string) {
	for _, path := range files {
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = path
		}
		color.New(color.FgYellow).Fprintf(w.out, "File changed: %s\n", rel)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories currently watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}
