package inbox

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs an fsnotify watcher on the inbox directory until ctx is
// cancelled, importing .md files as they appear. Writes are debounced per
// file so a file still being copied in is only imported once it settles.
func Watch(ctx context.Context, imp *Importer, dir string, logger *slog.Logger, cb Imported) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("inbox: watching", slog.String("dir", dir))

	const settle = 200 * time.Millisecond
	pending := map[string]*time.Timer{}
	ready := make(chan string, 16)

	for {
		select {
		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case path := <-ready:
			delete(pending, path)
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			id, err := imp.ImportFile(path)
			if err != nil {
				logger.Warn("inbox: import failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			if id != "" && cb != nil {
				cb(id)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isPending(filepath.Base(ev.Name)) {
				continue
			}
			path := ev.Name
			if t, ok := pending[path]; ok {
				t.Reset(settle)
				continue
			}
			pending[path] = time.AfterFunc(settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watch error", slog.String("error", watchErr.Error()))
		}
	}
}
