// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"slices"
	"syscall"
)

// watchLimitErrnos are the Win32 errors after which ReadDirectoryChangesW
// cannot serve the tree any longer: ERROR_TOO_MANY_OPEN_FILES (4),
// ERROR_INVALID_HANDLE (6) for a deleted or unmounted root and
// ERROR_NOT_ENOUGH_MEMORY (8) for the notification buffer.
var watchLimitErrnos = []syscall.Errno{4, 6, 8}

// exhaustsWatches reports whether err means the watcher cannot continue.
func exhaustsWatches(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return slices.Contains(watchLimitErrnos, errno)
}
