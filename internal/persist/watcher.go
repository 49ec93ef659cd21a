package persist

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is invoked after the watched document changes on disk.
type ChangeCallback func()

// WatchDocument starts an fsnotify watcher on the directory containing the
// memories document and invokes cb (debounced) whenever the document is
// written, created, or renamed into place, until ctx is cancelled.
//
// The directory, not the file, is watched: atomic saves replace the file
// via rename, which would drop a file-level watch after the first write.
func WatchDocument(ctx context.Context, docPath string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(docPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("document", docPath))

	// Debounce. Editors and atomic renames fire several events per save.
	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: document changed", slog.String("document", docPath))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != docPath {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
