package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks until the context is cancelled, invoking onChange whenever
// the workspace's wscript manifest is modified. The catalog itself is not
// cached, so callers typically re-run List from the callback.
func Watch(ctx context.Context, workspace string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors that replace the
	// file on save would otherwise drop the watch.
	if err := watcher.Add(workspace); err != nil {
		return fmt.Errorf("failed to watch %s: %w", workspace, err)
	}

	manifest := filepath.Join(workspace, "wscript")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Clean(event.Name), filepath.Clean(manifest)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debugLog("manifest changed: %s", event.Name)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debugLog("watch error: %v", err)
		}
	}
}
