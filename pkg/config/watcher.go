package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches the config file for changes and triggers a reload
// when modifications are detected. This lets a running server pick up
// tuning edits (log level, queue windows) without a restart.
type FileWatcher struct {
	// path is the config file to watch
	path string

	// onChange is invoked (debounced) after the file is written
	onChange func()

	// watcher is the fsnotify file watcher
	watcher *fsnotify.Watcher

	// debounceDelay is the time to wait before reloading after a change
	// (prevents multiple reloads for rapid successive writes)
	debounceDelay time.Duration

	// logger for structured logging
	logger zerolog.Logger

	// mu protects the debounce timer
	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewFileWatcher creates a watcher for the given config file path.
// Changes are debounced (default 100ms) to avoid redundant reloads
// during rapid successive writes.
func NewFileWatcher(path string, onChange func(), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		path:          path,
		onChange:      onChange,
		watcher:       watcher,
		debounceDelay: 100 * time.Millisecond,
		logger:        logger.With().Str("component", "config.watcher").Logger(),
	}, nil
}

// Start begins watching the config file for changes. It blocks until the
// context is canceled and should be run in its own goroutine:
//
//	go watcher.Start(ctx)
func (w *FileWatcher) Start(ctx context.Context) error {
	// fsnotify requires watching directories, not files directly
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)

	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("Failed to watch config directory")
		return err
	}

	w.logger.Info().
		Str("file", w.path).
		Dur("debounce", w.debounceDelay).
		Msg("Started watching config file")

	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Error closing watcher")
		}
		w.logger.Info().Msg("Stopped watching config file")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// Ignore other files in the same directory.
			if filepath.Base(event.Name) != base {
				continue
			}

			// Only react to write/create events (remove is handled by
			// create on the next write).
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Debug().
					Str("op", event.Op.String()).
					Str("file", event.Name).
					Msg("Detected config file change")

				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// scheduleReload schedules the onChange callback after the debounce
// delay. If a reload is already scheduled, the timer is reset.
func (w *FileWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		w.onChange()
		w.logger.Info().Msg("Config reload triggered")
	})
}

// Close stops the watcher and releases resources.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
