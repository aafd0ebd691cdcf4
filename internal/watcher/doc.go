// Package watcher provides real-time file system watching for a filex
// repository's work tree, with automatic debouncing of rapid changes.
//
// The package implements a hybrid watching strategy:
//   - Primary: fsnotify for efficient event-based watching
//   - Fallback: polling for environments where fsnotify fails (network mounts, some container volumes)
//
// Events for the same path within the debounce window are coalesced, and
// the repository's own .filex directory is always skipped.
//
// Usage:
//
//	opts := watcher.DefaultOptions()
//	w, err := watcher.NewHybridWatcher(opts)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	// Start blocks until ctx is cancelled or Stop is called.
//	go func() {
//	    if err := w.Start(ctx, "/path/to/work/tree"); err != nil {
//	        slog.Warn("watcher stopped", "error", err)
//	    }
//	}()
//
//	for batch := range w.Events() {
//	    for _, event := range batch {
//	        // re-index event.Path via manager.IndexFile
//	    }
//	}
package watcher
