package debug

// Descriptor is the debugger-attach or launch description handed back to
// the caller once a session is resolved. Two shapes exist: attach-by-pid
// (macOS lldb) and launch-with-remote-server (gdb elsewhere).
type Descriptor struct {
	Type    string `json:"type"`
	Request string `json:"request"`
	Name    string `json:"name"`
	Program string `json:"program"`
	Cwd     string `json:"cwd,omitempty"`

	// Attach-by-pid shape.
	PID int `json:"pid,omitempty"`

	// Remote-server shape.
	MIDebuggerPath          string `json:"miDebuggerPath,omitempty"`
	MIDebuggerServerAddress string `json:"miDebuggerServerAddress,omitempty"`
}
