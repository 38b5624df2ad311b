package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
)

// DefaultDebounce coalesces bursts of file events into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes under a set of directories (recursively) and files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dirs     []string
	files    map[string]bool
	debounce time.Duration
}

// NewWatcher watches dirs recursively and files individually. Missing paths are
// skipped with a warning so a preview can start before the data exists.
func NewWatcher(dirs, files []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.PreviewError("failed to create file watcher").WithCause(err).Build()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{fsw: fsw, files: map[string]bool{}, debounce: debounce}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			slog.Warn("Watch directory not found", logfields.Path(abs))
			continue
		}
		w.dirs = append(w.dirs, abs)
		w.addRecursive(abs)
	}
	// Files are watched through their parent directory so editors that replace
	// files on save keep triggering events.
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = true
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			slog.Warn("Watch add failed", logfields.Path(abs), logfields.Error(err))
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(p); err != nil {
				slog.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
			}
		}
		return nil
	})
}

// relevant reports whether an event on path should trigger a rebuild.
func (w *Watcher) relevant(path string) bool {
	if shouldIgnore(path) {
		return false
	}
	if w.files[path] {
		return true
	}
	for _, d := range w.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run delivers debounced change notifications to onChange until ctx is done.
// onChange receives the last changed path of the burst.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	var (
		mu    sync.Mutex
		timer *time.Timer
		last  string
	)
	trigger := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		last = path
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			p := last
			mu.Unlock()
			onChange(p)
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error { return w.fsw.Close() }

// shouldIgnore filters hidden files, editor swap files and OS metadata.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}
