package dataset

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called after a watcher-driven reload changed the catalog.
type ReloadCallback func(recipes int)

const reloadDebounce = 200 * time.Millisecond

// Watch observes the catalog's dataset file and reloads it on change until
// ctx is cancelled. It watches the parent directory so that editors that
// replace the file by rename are picked up. Bursts of events are debounced.
// A failed reload is logged and the previous snapshot stays active.
func Watch(ctx context.Context, c *Catalog, logger *slog.Logger, cb ReloadCallback) error {
	if c.path == "" {
		return errors.New("dataset: embedded dataset cannot be watched")
	}
	abs, err := filepath.Abs(c.path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			changed, err := c.Reload()
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
				continue
			}
			if !changed {
				logger.Debug("watcher: dataset unchanged", slog.String("path", abs))
				continue
			}
			logger.Info("watcher: dataset reloaded", slog.String("path", abs), slog.Int("recipes", c.Len()))
			if cb != nil {
				cb(c.Len())
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
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
