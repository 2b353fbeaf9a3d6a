//go:build darwin

package debug

import (
	"github.com/apdev-io/apdev/internal/tools"
)

// lldbBackend attaches lldb to the running simulator by pid.
type lldbBackend struct{}

// NewBackend returns the macOS debugger backend.
func NewBackend() Backend {
	return &lldbBackend{}
}

func (b *lldbBackend) Name() string { return "lldb" }

func (b *lldbBackend) CheckPrerequisites(f *tools.Finder) error {
	_, err := f.Require(tools.LLDB)
	return err
}

func (b *lldbBackend) NeedsRemoteServer() bool { return false }

func (b *lldbBackend) Descriptor(configName, program string, pid, port int) *Descriptor {
	return &Descriptor{
		Type:    "lldb",
		Request: "attach",
		Name:    "Debug " + configName,
		Program: program,
		PID:     pid,
	}
}
