package file

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// Watch emits the ID of each page whose file is created, written, renamed
// or removed. The channel is closed when ctx is cancelled.
func (s *NoteStore) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	changes := make(chan string, 16)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				id, ok := pageIDFromPath(event.Name)
				if !ok {
					continue
				}
				select {
				case changes <- id:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("note watcher: %v", err)
			}
		}
	}()

	return changes, nil
}
