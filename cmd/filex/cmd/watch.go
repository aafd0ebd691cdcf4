package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/watcher"
)

// runWatcher starts a hybrid filesystem watcher on root and reindexes
// changed files as debounced batches of events arrive, until ctx is
// cancelled. Each batch opens its own repository handle so it never holds
// the catalog open across an idle period alongside concurrent HTTP
// requests.
func runWatcher(ctx context.Context, root string) error {
	w, err := watcher.NewHybridWatcher(watcher.DefaultOptions())
	if err != nil {
		return err
	}
	defer w.Stop()

	startErr := make(chan error, 1)
	go func() { startErr <- w.Start(ctx, root) }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-startErr:
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			reindexBatch(ctx, root, batch)
		case err, ok := <-w.Errors():
			if !ok {
				continue
			}
			slog.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

func reindexBatch(ctx context.Context, root string, batch []watcher.FileEvent) {
	a, err := app.Open(root, true)
	if err != nil {
		slog.Error("watch: open repository", slog.String("error", err.Error()))
		return
	}
	defer a.Close()

	for _, evt := range batch {
		if evt.IsDir || evt.Operation == watcher.OpConfigChange {
			continue
		}
		if evt.Operation == watcher.OpDelete {
			continue
		}
		absPath := filepath.Join(root, evt.Path)
		if _, err := a.Manager.IndexFile(ctx, absPath, false); err != nil {
			slog.Warn("watch: index file", slog.String("path", absPath), slog.String("error", err.Error()))
		}
	}

	if err := a.Save(); err != nil {
		slog.Error("watch: save index", slog.String("error", err.Error()))
	}
}
