// Package active tracks which build configuration is currently selected.
// The state is an explicit object handed to the commands that need it, with
// a listener list for refresh notifications, rather than a package global.
package active

import (
	"sync"

	"github.com/apdev-io/apdev/internal/buildconfig"
)

// LaunchDescriptor is the simplified view the build/debug/run/upload
// shortcuts consume.
type LaunchDescriptor struct {
	Target string
	Board  string
	IsSITL bool
}

// State holds the selected configuration for one workspace.
type State struct {
	mu        sync.Mutex
	store     *buildconfig.Store
	current   *buildconfig.BuildConfiguration
	desc      LaunchDescriptor
	listeners []func(buildconfig.BuildConfiguration)
}

// New creates an empty State bound to the store.
func New(store *buildconfig.Store) *State {
	return &State{store: store}
}

// LoadDefault resolves the persisted selection against the current
// configuration list, falling back to the first configuration. With no
// configurations at all, the state stays unset and downstream actions must
// treat that as a no-op.
func (s *State) LoadDefault() {
	list := s.store.List()
	if len(list) == 0 {
		return
	}
	name := s.store.ActiveName()
	for i := range list {
		if list[i].Name == name {
			s.set(list[i])
			return
		}
	}
	// Upload companions are derived records; never promote one by default.
	for i := range list {
		if !buildconfig.IsUploadName(list[i].Name) {
			s.set(list[i])
			return
		}
	}
	s.set(list[0])
}

// SetActive replaces the selection, persists it, and notifies listeners.
func (s *State) SetActive(cfg buildconfig.BuildConfiguration) error {
	s.set(cfg)
	if err := s.store.SetActiveName(cfg.Name); err != nil {
		return err
	}
	s.mu.Lock()
	listeners := make([]func(buildconfig.BuildConfiguration), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// Current returns the selected configuration, if any.
func (s *State) Current() (buildconfig.BuildConfiguration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return buildconfig.BuildConfiguration{}, false
	}
	return *s.current, true
}

// Descriptor returns the simplified launch view of the selection.
func (s *State) Descriptor() LaunchDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc
}

// Subscribe registers a callback invoked on every selection change.
func (s *State) Subscribe(fn func(buildconfig.BuildConfiguration)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *State) set(cfg buildconfig.BuildConfiguration) {
	s.mu.Lock()
	s.current = &cfg
	s.desc = LaunchDescriptor{
		Target: cfg.Target,
		Board:  cfg.Board,
		IsSITL: cfg.IsSITL(),
	}
	s.mu.Unlock()
}
