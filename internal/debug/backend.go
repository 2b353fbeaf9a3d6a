package debug

import (
	"github.com/apdev-io/apdev/internal/tools"
)

// Backend abstracts the platform debugger. The implementation is selected
// once at build time: lldb attach on macOS, gdb with a remote server
// elsewhere.
type Backend interface {
	// Name identifies the backend in user-facing messages.
	Name() string
	// CheckPrerequisites resolves the debugger binary, returning
	// tools.ErrToolMissing when it is absent.
	CheckPrerequisites(f *tools.Finder) error
	// NeedsRemoteServer reports whether the simulator must expose a debug
	// server port for this backend.
	NeedsRemoteServer() bool
	// Descriptor builds the attach/launch description for a resolved
	// session. pid may be 0 when process discovery timed out.
	Descriptor(configName, program string, pid, port int) *Descriptor
}
