package debug

import (
	"math/rand"
	"sync"
)

// Session is the transient state of one live SITL debug session. Fields are
// cleared unconditionally on termination so a later session starts clean
// even when cleanup partially failed.
type Session struct {
	ConfigName  string
	TmuxSession string
	Port        int
	PID         int

	mux multiplexer
}

// Registry tracks live sessions so concurrently started ones avoid
// colliding on ports and session names.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add records a live session keyed by its tmux session name.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.TmuxSession] = s
	r.mu.Unlock()
}

// Remove forgets a session. Unknown names are a no-op.
func (r *Registry) Remove(tmuxSession string) {
	r.mu.Lock()
	delete(r.sessions, tmuxSession)
	r.mu.Unlock()
}

// UsedPorts returns the debug-server ports of live sessions.
func (r *Registry) UsedPorts() map[int]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	used := make(map[int]bool, len(r.sessions))
	for _, s := range r.sessions {
		if s.Port != 0 {
			used[s.Port] = true
		}
	}
	return used
}

const (
	portBase  = 3000
	portRange = 20000
)

// PickPort chooses a pseudo-random debug-server port biased away from the
// ports of sessions already running.
func PickPort(used map[int]bool) int {
	for i := 0; i < 32; i++ {
		port := portBase + rand.Intn(portRange)
		if !used[port] {
			return port
		}
	}
	return portBase + rand.Intn(portRange)
}
