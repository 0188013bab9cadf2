// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets an editor's write-then-rename settle into one run.
const defaultDebounce = 300 * time.Millisecond

var (
	// ErrWatchLimit is wrapped by Run when the OS refuses further watches.
	ErrWatchLimit = errors.New("file watch resources exhausted")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the directory tree to watch. Empty means the working
		// directory.
		BaseDir string

		// Patterns are doublestar globs, relative to BaseDir, selecting the
		// files whose changes trigger OnChange. Empty selects every file.
		Patterns []string

		// Ignore adds doublestar globs to the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each run.
		ClearScreen bool

		// OnChange receives the sorted, deduplicated slash paths (relative to
		// BaseDir) that changed. Its error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence; nil means os.Stdout.
		Stdout io.Writer
	}

	// Watcher monitors a directory tree and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		filter   filter
		stdout   io.Writer
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// New validates cfg, creates the fsnotify watcher and registers every
// non-ignored directory below BaseDir.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	f, err := newFilter(cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, classify(fmt.Errorf("watch: create fsnotify watcher: %w", err))
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		filter:   f,
		stdout:   stdout,
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// BaseDir returns the absolute directory being watched.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and an
// error wrapping ErrWatchLimit when the OS runs out of watch resources.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation because it is scheduled by
	// time.AfterFunc. Runs never overlap: a busy run reschedules the timer
	// so pending paths are picked up afterwards.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			slog.Debug("watch: previous run still in progress, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}
		slog.Debug("watch: change detected", "paths", changed)

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				slog.Error("watch: regeneration failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			slog.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			rel = filepath.ToSlash(rel)

			// New directories are registered before filtering so sources
			// created inside them later are seen.
			if evt.Has(fsnotify.Create) {
				if err := w.maybeAddDir(evt.Name, rel); err != nil {
					return err
				}
			}

			if w.filter.ignored(rel) || !w.filter.selected(rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if exhaustsWatches(err) {
				return classify(fmt.Errorf("watch: fatal fsnotify error: %w", err))
			}
			slog.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addDirectories registers BaseDir and every non-ignored directory below it.
// Inaccessible directories are logged and skipped.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			slog.Warn("watch: skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if rel != "." && w.filter.ignoredDir(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return classify(fmt.Errorf("watch: add directory %q: %w", path, addErr))
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir registers a directory created after startup. Only resource
// exhaustion is returned; other failures are logged.
func (w *Watcher) maybeAddDir(path, rel string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil //nolint:nilerr // the path vanished or is a file
	}
	if w.filter.ignoredDir(rel) {
		return nil
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		if exhaustsWatches(addErr) {
			return classify(fmt.Errorf("watch: add new directory %q: %w", path, addErr))
		}
		slog.Warn("watch: add new directory", "path", path, "error", addErr)
	}
	return nil
}

// classify tags resource exhaustion errors with ErrWatchLimit.
func classify(err error) error {
	if exhaustsWatches(err) {
		return fmt.Errorf("%w: %w", ErrWatchLimit, err)
	}
	return err
}
