// Package tmux drives a terminal multiplexer hosting long-running
// simulator processes independently of apdev's own lifetime.
package tmux

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tmux wraps one tmux binary.
type Tmux struct {
	Bin string

	// run is swappable for tests.
	run func(args ...string) ([]byte, error)
}

// New creates a wrapper around the given tmux binary path.
func New(bin string) *Tmux {
	t := &Tmux{Bin: bin}
	t.run = func(args ...string) ([]byte, error) {
		return exec.Command(t.Bin, args...).CombinedOutput()
	}
	return t
}

// NewSession starts a detached session running the command in dir.
func (t *Tmux) NewSession(name, dir, command string) error {
	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	args = append(args, command)
	if out, err := t.run(args...); err != nil {
		return fmt.Errorf("tmux new-session failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// HasSession reports whether a session with the name exists.
func (t *Tmux) HasSession(name string) bool {
	_, err := t.run("has-session", "-t", name)
	return err == nil
}

// KillSession tears down a session. Missing sessions are not an error.
func (t *Tmux) KillSession(name string) error {
	out, err := t.run("kill-session", "-t", name)
	if err != nil {
		if strings.Contains(strings.ToLower(string(out)), "can't find session") {
			return nil
		}
		return fmt.Errorf("tmux kill-session failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}
