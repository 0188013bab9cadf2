// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"slices"
	"syscall"
)

// watchLimitErrnos are the inotify and descriptor limits after which no
// further demo directory can be watched: max_user_watches (ENOSPC), the
// per-process descriptor limit (EMFILE) and the system-wide one (ENFILE).
var watchLimitErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}

// exhaustsWatches reports whether err means the OS refuses more watches.
func exhaustsWatches(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return slices.Contains(watchLimitErrnos, errno)
}
