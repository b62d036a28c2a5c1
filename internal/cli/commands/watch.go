package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// fileWatcher reports changes to a single file. It watches the parent
// directory so that editors replacing the file by rename are noticed.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger
}

func newFileWatcher(path string, logger *slog.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &fileWatcher{watcher: watcher, path: abs, logger: logger}, nil
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

// Run calls onChange after each burst of writes to the file until ctx is done.
// onChange errors are logged, not returned.
func (fw *fileWatcher) Run(ctx context.Context, onChange func() error) error {
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			fw.logger.Debug("file changed", "file", fw.path)
			if err := onChange(); err != nil {
				fw.logger.Error("reformat failed", "file", fw.path, "error", err)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("watcher error", "error", err)
		}
	}
}
