//go:build !darwin

package debug

import (
	"fmt"

	"github.com/apdev-io/apdev/internal/tools"
)

// gdbBackend launches gdb against the simulator's remote debug server.
type gdbBackend struct {
	gdbPath string
}

// NewBackend returns the gdb backend used on non-macOS platforms.
func NewBackend() Backend {
	return &gdbBackend{}
}

func (b *gdbBackend) Name() string { return "gdb" }

func (b *gdbBackend) CheckPrerequisites(f *tools.Finder) error {
	path := f.FindFirst(tools.GDB, "gdb-multiarch")
	if path == "" {
		return fmt.Errorf("%w: %s", tools.ErrToolMissing, tools.GDB)
	}
	b.gdbPath = path
	return nil
}

func (b *gdbBackend) NeedsRemoteServer() bool { return true }

func (b *gdbBackend) Descriptor(configName, program string, pid, port int) *Descriptor {
	return &Descriptor{
		Type:                    "cppdbg",
		Request:                 "launch",
		Name:                    "Debug " + configName,
		Program:                 program,
		MIDebuggerPath:          b.gdbPath,
		MIDebuggerServerAddress: fmt.Sprintf("localhost:%d", port),
	}
}
