// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestExhaustsWatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "inotify watch limit", err: syscall.ENOSPC, want: true},
		{name: "process descriptor limit", err: syscall.EMFILE, want: true},
		{name: "system descriptor limit", err: syscall.ENFILE, want: true},
		{name: "wrapped by fsnotify", err: fmt.Errorf("add /src/demo/poisson: %w", syscall.ENOSPC), want: true},
		{name: "permission denied", err: syscall.EACCES, want: false},
		{name: "plain error", err: errors.New("no space left on device"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exhaustsWatches(tt.err); got != tt.want {
				t.Errorf("exhaustsWatches(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify_WatchLimit(t *testing.T) {
	t.Parallel()

	err := classify(fmt.Errorf("watch: add directory %q: %w", "/src/demo", syscall.ENOSPC))
	if !errors.Is(err, ErrWatchLimit) {
		t.Errorf("classify(ENOSPC) = %v, should wrap ErrWatchLimit", err)
	}
	if !errors.Is(err, syscall.ENOSPC) {
		t.Errorf("classify(ENOSPC) = %v, should keep the errno", err)
	}

	if plain := classify(syscall.EACCES); errors.Is(plain, ErrWatchLimit) {
		t.Errorf("classify(EACCES) = %v, should not wrap ErrWatchLimit", plain)
	}
}
