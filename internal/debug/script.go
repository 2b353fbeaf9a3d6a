package debug

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// HelperScriptRelPath is where the firmware tree expects the terminal
// helper that the simulator launcher uses to spawn its consoles.
const HelperScriptRelPath = "Tools/autotest/run_in_terminal_window.sh"

const helperScript = `#!/usr/bin/env bash
# Run a command in a fresh terminal window, falling back to tmux or the
# background when no graphical terminal is available.
name="$1"
shift
echo "RiTW: $name : $*"
if [ -n "$TMUX" ]; then
    tmux new-window -d -n "$name" "$*"
elif command -v gnome-terminal >/dev/null 2>&1; then
    gnome-terminal --title "$name" -- bash -c "$*"
elif command -v xterm >/dev/null 2>&1; then
    xterm -T "$name" -e "$*" &
else
    echo "RiTW: no terminal available, running in background"
    "$@" &
fi
`

// EnsureHelperScript installs the bundled helper into the workspace. A
// stale copy is backed up beside itself before being replaced; an identical
// copy is left untouched, so the call is idempotent.
func EnsureHelperScript(workspace string) error {
	path := filepath.Join(workspace, filepath.FromSlash(HelperScriptRelPath))
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(helperScript)) {
		return nil
	}
	if err == nil {
		backup := path + ".bak"
		if renameErr := os.Rename(path, backup); renameErr != nil {
			return fmt.Errorf("failed to back up stale helper script: %w", renameErr)
		}
		debugLog("backed up stale helper script to %s", backup)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create helper script directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(helperScript), 0755); err != nil {
		return fmt.Errorf("failed to install helper script: %w", err)
	}
	return nil
}
