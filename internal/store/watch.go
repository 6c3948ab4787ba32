package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// Watch calls onChange after another process commits to the SQLite file
// at path. Events on the database and its WAL are coalesced over
// config.WatchDebounce. The watcher stops when ctx is done.
// The returned channel is closed once the watcher goroutine has exited.
func Watch(ctx context.Context, path string, onChange func()) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWatch, err)
	}

	// Watch the directory: SQLite replaces and recreates the WAL file.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("%s: %s: %w", config.ErrWatch, dir, err)
	}

	relevant := map[string]bool{
		filepath.Base(path):          true,
		filepath.Base(path) + "-wal": true,
	}

	log := slog.With(
		config.LogKeyComponent, config.CompWatcher,
		config.LogKeyPath, path,
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = watcher.Close() }()

		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant[filepath.Base(ev.Name)] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				log.Debug(config.MsgStoreChanged, config.LogKeyOp, ev.Op.String())

				mu.Lock()
				if timer == nil {
					timer = time.AfterFunc(config.WatchDebounce, func() {
						mu.Lock()
						timer = nil
						mu.Unlock()
						if ctx.Err() == nil {
							onChange()
						}
					})
				}
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn(config.ErrWatch, config.LogKeyError, err)
			}
		}
	}()

	return done, nil
}
