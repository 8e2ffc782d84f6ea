package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nhle/smartcal/internal/kv"
)

// DefaultWatchDebounce groups bursts of file events into one reload.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch reloads the store whenever another process rewrites the backing
// files. It blocks until ctx is done. onReload, if non-nil, is called with
// each fresh snapshot.
func (s *Store) Watch(ctx context.Context, w kv.Watchable, debounce time.Duration, onReload func(Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.WatchDir()); err != nil {
		return fmt.Errorf("watching %s: %w", w.WatchDir(), err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		if ctx.Err() != nil {
			return
		}
		snap := s.Reload(ctx)
		s.logger.Debug("reloaded after external change",
			"notes", len(snap.Notes), "reminders", len(snap.Reminders))
		if onReload != nil {
			onReload(snap)
		}
	}
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
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.Owns(event.Name) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("fsnotify error", "error", err)
		}
	}
}
