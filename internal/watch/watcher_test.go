// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fenics/cmakegen/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func startWatcher(t *testing.T, cfg Config) (stop func()) {
	t.Helper()

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	return func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "demo", "poisson"), 0o755)
	rec := newRecorder()

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Patterns: SourcePatterns(".cpp", ".ufl"),
		Debounce: 150 * time.Millisecond,
		OnChange: rec.onChange,
	})
	defer stop()

	for _, name := range []string{"main.cpp", "poisson.ufl", "main.cpp"} {
		testutil.MustWriteFile(t, filepath.Join(dir, "demo", "poisson", name), "x")
		time.Sleep(10 * time.Millisecond)
	}
	rec.wait(t)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("got %d callbacks, want 1", len(calls))
	}
	want := []string{"demo/poisson/main.cpp", "demo/poisson/poisson.ufl"}
	if len(calls[0]) != len(want) || calls[0][0] != want[0] || calls[0][1] != want[1] {
		t.Errorf("changed = %v, want %v", calls[0], want)
	}
}

func TestWatcherIgnoresDescriptorWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Patterns: SourcePatterns(".cpp"),
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
	})
	defer stop()

	testutil.MustWriteFile(t, filepath.Join(dir, "CMakeLists.txt"), "generated")
	testutil.MustWriteFile(t, filepath.Join(dir, "notes.md"), "x")
	time.Sleep(300 * time.Millisecond)

	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("non-source writes triggered %d callbacks: %v", len(calls), calls)
	}

	testutil.MustWriteFile(t, filepath.Join(dir, "main.cpp"), "x")
	rec.wait(t)
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Patterns: SourcePatterns(".cpp"),
		Debounce: 50 * time.Millisecond,
		OnChange: rec.onChange,
	})
	defer stop()

	// Give the event loop time to register each new directory before
	// creating anything inside it.
	testutil.MustMkdirAll(t, filepath.Join(dir, "demo"), 0o755)
	time.Sleep(100 * time.Millisecond)
	newDir := filepath.Join(dir, "demo", "stokes")
	testutil.MustMkdirAll(t, newDir, 0o755)
	time.Sleep(100 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(newDir, "main.cpp"), "x")

	rec.wait(t)
}

func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		active  atomic.Int32
		overlap atomic.Bool
		calls   atomic.Int32
	)
	done := make(chan struct{}, 4)

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Debounce: 30 * time.Millisecond,
		OnChange: func(_ context.Context, _ []string) error {
			if active.Add(1) > 1 {
				overlap.Store(true)
			}
			calls.Add(1)
			time.Sleep(200 * time.Millisecond)
			active.Add(-1)
			done <- struct{}{}
			return nil
		},
	})
	defer stop()

	testutil.MustWriteFile(t, filepath.Join(dir, "a.cpp"), "1")
	time.Sleep(80 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(dir, "b.cpp"), "2")

	for range 2 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for callbacks")
		}
	}

	if overlap.Load() {
		t.Error("callbacks ran concurrently")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (pending change must be retried)", calls.Load())
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu  sync.Mutex
		out bytes.Buffer
	)
	rec := newRecorder()

	stop := startWatcher(t, Config{
		BaseDir:     dir,
		Debounce:    30 * time.Millisecond,
		ClearScreen: true,
		Stdout:      lockedWriter{mu: &mu, w: &out},
		OnChange:    rec.onChange,
	})
	defer stop()

	testutil.MustWriteFile(t, filepath.Join(dir, "main.cpp"), "x")
	rec.wait(t)

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(out.String(), "\033[2J\033[H") {
		t.Errorf("stdout = %q, want clear sequence", out.String())
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Errorf("Run() after cancel = %v, want nil", err)
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)

	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	<-errCh
}

func TestWatcherInvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("New() should reject an invalid watch pattern")
	}
	if _, err := New(Config{BaseDir: t.TempDir(), Ignore: []string{"{a,b"}}); err == nil {
		t.Error("New() should reject an invalid ignore pattern")
	}
}

func TestWatcherMissingBaseDir(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "gone")
	if _, err := New(Config{BaseDir: missing}); err == nil {
		t.Error("New() should fail for a missing base directory")
	}
	if _, err := os.Stat(missing); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New() must not create the base directory: %v", err)
	}
}
