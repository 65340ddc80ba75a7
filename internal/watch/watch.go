// Package watch rebuilds the site when its sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc performs one build. It is never called concurrently.
type RebuildFunc func(ctx context.Context) error

// Watcher observes a site directory and triggers rebuilds.
type Watcher struct {
	root     string
	skip     []string
	debounce time.Duration
	rebuild  RebuildFunc
	logger   *slog.Logger

	mu       sync.Mutex
	builds   int
	failures int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for rebuild progress.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSkip excludes directories from watching. The output directory and
// its staging siblings are always skipped when passed here.
func WithSkip(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if d == "" {
				continue
			}
			d = filepath.Clean(d)
			w.skip = append(w.skip, d, d+"_stage", d+".prev")
		}
	}
}

// New watches root recursively and calls rebuild after changes settle.
func New(root string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve watch root").
			Fatal().WithContext("path", root).Build()
	}
	w := &Watcher{root: abs, debounce: DefaultDebounce, rebuild: rebuild, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Stats reports how many rebuilds ran and how many of them failed.
func (w *Watcher) Stats() (builds, failures int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds, w.failures
}

// Run performs an initial build and then rebuilds on every settled change
// until ctx is canceled. Build failures are logged and do not stop
// watching.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := w.addRecursive(fw, w.root); err != nil {
		return err
	}

	w.runBuild(ctx)

	rebuildReq, trigger, stop := debouncer(w.debounce)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				w.runBuild(ctx)
			}
		}
	}()

	w.logger.Info("Watching for changes", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				<-done
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				<-done
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := w.rebuild(ctx)

	w.mu.Lock()
	w.builds++
	if err != nil {
		w.failures++
	}
	w.mu.Unlock()

	switch {
	case err == nil:
		w.logger.Info("Rebuilt site", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	case errors.Is(err, context.Canceled):
	default:
		w.logger.Warn("Rebuild failed", logfields.Error(err))
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addRecursive(fw, ev.Name)
		}
	}
	if ev.Op == fsnotify.Chmod {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return derrors.WrapError(err, derrors.CategoryFileSystem, "watch directory").
					Fatal().WithContext("path", path).Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// ignored reports whether a change at path must not trigger a rebuild.
func (w *Watcher) ignored(path string) bool {
	clean := filepath.Clean(path)
	for _, s := range w.skip {
		if clean == s || strings.HasPrefix(clean, s+string(filepath.Separator)) {
			return true
		}
	}
	rel, err := filepath.Rel(w.root, clean)
	if err == nil && rel != "." {
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			if part == "node_modules" || strings.HasPrefix(part, ".") {
				return true
			}
		}
	}
	return ignoredName(filepath.Base(clean))
}

// ignoredName matches hidden files, editor swap files and OS droppings.
func ignoredName(base string) bool {
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

// debouncer returns a channel that receives one value after trigger has
// been quiet for d. Pending requests coalesce.
func debouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}
