// Package watcher turns filesystem change notifications into cache
// invalidations.
//
// A Source delivers batches of events. FSWatcher is the fsnotify-backed
// Source: it watches the base directory and every directory below the roots,
// and coalesces events arriving within a debounce window into one Batch.
// A Subscription consumes a Source on its own goroutine and calls back for
// every batch that touches a root.
package watcher
