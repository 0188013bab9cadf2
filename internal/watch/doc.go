// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs generation when source files change.
//
// A Watcher monitors every non-ignored directory below a base directory and
// invokes a callback once a debounce period has passed without further
// matching events. Events inside the window are coalesced so the callback
// sees the full set of changed paths. Only paths matching the configured
// patterns trigger; generated descriptors therefore do not retrigger a run
// as long as the patterns select source files only.
package watch
