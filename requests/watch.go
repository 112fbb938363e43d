package requests

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce batches the burst of events an editor emits per save
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchForestFile blocks until ctx is done, calling onChange with the freshly
// loaded forest after each change to the file at path. The parent directory
// is watched rather than the file so that editors which save by renaming a
// temp file over the original are still seen. A file that fails to load is
// logged and skipped; the next good save is delivered as usual.
func WatchForestFile(ctx context.Context, path string, debounce time.Duration, onChange func([]filetree.NodeView)) error {
	logger := util.GetLogger("WatchForestFile").With().Str("nodes", path).Logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() // nolint:errcheck

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	logger.Info().Msg("Watching nodes file")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Trace().Str("op", event.Op.String()).Msg("Nodes file event")
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("Watcher error")

		case <-timer.C:
			forest, err := LoadForestFile(abs)
			if err != nil {
				logger.Warn().Err(err).Msg("Skipping unreadable nodes file")
				continue
			}
			logger.Debug().Int("roots", len(forest)).Msg("Nodes file changed")
			onChange(forest)
		}
	}
}
