package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// DefaultDebounce coalesces bursts of file events into one notification.
const DefaultDebounce = 250 * time.Millisecond

// Watch notifies on the returned channel whenever record files are created,
// written, removed or renamed. Events within debounce of each other produce
// one notification. The channel is closed when ctx is done.
func (s *InsightStore) Watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file: create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("file: watch %s: %w", s.dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isRecordChange(event) {
					continue
				}
				logger.Debug("Insight change: %s %s", event.Op, filepath.Base(event.Name))
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				select {
				case changes <- struct{}{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Insight watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// isRecordChange reports whether an event touches a record file in a way that changes its content.
func isRecordChange(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != recordExt {
		return false
	}
	base := filepath.Base(event.Name)
	if len(base) > 0 && base[0] == '.' {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
