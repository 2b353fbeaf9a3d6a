// Package tools locates the external programs apdev drives: compilers,
// debuggers, the terminal multiplexer and the Python interpreter.
package tools

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// ErrToolMissing is returned when a required external program cannot be
// found on PATH or through a configured override.
var ErrToolMissing = errors.New("required tool not found")

// Well-known tool names.
const (
	CC     = "gcc"
	CXX    = "g++"
	Python = "python3"
	Tmux   = "tmux"
	GDB    = "gdb"
	LLDB   = "lldb"
)

// Finder resolves tool names to absolute paths. Configured overrides win
// over PATH lookup; resolutions are cached for the process lifetime.
type Finder struct {
	mu        sync.Mutex
	overrides map[string]string
	cache     map[string]string
}

// NewFinder creates a Finder. Overrides map bare tool names to paths and
// take priority over PATH discovery; a nil map is fine.
func NewFinder(overrides map[string]string) *Finder {
	return &Finder{
		overrides: overrides,
		cache:     make(map[string]string),
	}
}

// Find returns the resolved path for a tool, or "" when it is not
// available. The bare name is never returned as a fallback so callers can
// distinguish a real resolution from a failed one.
func (f *Finder) Find(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if path, ok := f.cache[name]; ok {
		return path
	}
	if path, ok := f.overrides[name]; ok && path != "" {
		f.cache[name] = path
		return path
	}
	path, err := exec.LookPath(name)
	if err != nil {
		f.cache[name] = ""
		return ""
	}
	f.cache[name] = path
	return path
}

// FindFirst returns the first resolvable candidate, or "" when none is.
func (f *Finder) FindFirst(names ...string) string {
	for _, name := range names {
		if path := f.Find(name); path != "" {
			return path
		}
	}
	return ""
}

// Require resolves a tool or returns ErrToolMissing naming it.
func (f *Finder) Require(name string) (string, error) {
	if path := f.Find(name); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrToolMissing, name)
}
