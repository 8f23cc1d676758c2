package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// watchFile reports changes to the file at path until ctx is cancelled.
// Editors often replace files by rename, so the parent directory is watched
// and events are filtered by name. Bursts are coalesced into one signal.
func watchFile(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	send := func() {
		select {
		case changes <- struct{}{}:
		default:
			// A signal is already pending; the reload it triggers reads the
			// latest contents.
		}
	}

	go func() {
		defer close(changes)
		defer watcher.Close()

		var (
			mu    sync.Mutex
			timer *time.Timer
			done  bool
		)
		defer func() {
			mu.Lock()
			done = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				mu.Lock()
				if timer == nil {
					timer = time.AfterFunc(watchDebounce, func() {
						mu.Lock()
						defer mu.Unlock()
						timer = nil
						if !done {
							send()
						}
					})
				}
				mu.Unlock()
			}
		}
	}()

	return changes, nil
}
