// Package watcher reruns work when scenario or config files change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher calls back once per burst of writes to a watched file
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	log       zerolog.Logger
	mu        sync.Mutex
	callbacks map[string]func(string)
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a watcher that waits debounce after the last event
func NewFileWatcher(debounce time.Duration, log zerolog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		debounce:  debounce,
		log:       log.With().Str("component", "watcher").Logger(),
		callbacks: make(map[string]func(string)),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch registers callback for files. The callback receives the absolute path.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := fw.watcher.Add(abs); err != nil {
			return fmt.Errorf("failed to watch %s: %w", abs, err)
		}
		fw.callbacks[abs] = callback
		fw.log.Debug().Str("file", abs).Msg("watching")
	}
	return nil
}

// Run dispatches events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// Editors often replace the file, which shows up as Create
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.schedule(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (fw *FileWatcher) schedule(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.callbacks[path]
	if !ok {
		return
	}
	if timer, ok := fw.timers[path]; ok {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.log.Debug().Str("file", path).Msg("changed")
		callback(path)
	})
}

// Close stops pending callbacks and releases the watcher
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()
	return fw.watcher.Close()
}
