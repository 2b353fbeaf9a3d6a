// Package debug resolves build configurations into live debug sessions:
// it starts the SITL simulator under tmux and produces the matching
// debugger attach/launch descriptor, or runs the hardware upload pipeline.
package debug

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/task"
	"github.com/apdev-io/apdev/internal/tmux"
	"github.com/apdev-io/apdev/internal/tools"
)

// ErrResolution is the generic failure reported when resolution breaks in
// an unexpected way; the specific cause has already been logged.
var ErrResolution = errors.New("error in debug resolution")

// pidDiscoveryTimeout bounds the wait for the simulator process to appear.
const pidDiscoveryTimeout = 10 * time.Second

func debugLog(format string, args ...interface{}) {
	if os.Getenv("APDEV_DEBUG") == "1" {
		fmt.Printf("[DEBUG:DEBUGGER] "+format+"\n", args...)
	}
}

// multiplexer is the slice of tmux the orchestrator needs.
type multiplexer interface {
	NewSession(name, dir, command string) error
	HasSession(name string) bool
	KillSession(name string) error
}

// simVehicleNames maps vehicle targets to the names the simulation
// launcher script expects.
var simVehicleNames = map[string]string{
	"copter":         "ArduCopter",
	"heli":           "Heli",
	"plane":          "ArduPlane",
	"rover":          "Rover",
	"sub":            "ArduSub",
	"blimp":          "Blimp",
	"antennatracker": "AntennaTracker",
}

// SimVehicleName translates a vehicle target into the simulation
// launcher's naming, reporting whether the target is simulatable.
func SimVehicleName(target string) (string, bool) {
	name, ok := simVehicleNames[target]
	return name, ok
}

// Orchestrator drives the debug-session lifecycle for one workspace.
type Orchestrator struct {
	Workspace string
	Store     *buildconfig.Store
	Finder    *tools.Finder
	Registry  *Registry
	Backend   Backend

	// Swappable collaborators for tests.
	runTask     func(ctx context.Context, t *task.Task) error
	newMux      func(bin string) multiplexer
	waitForPID  func(ctx context.Context, pattern string, timeout time.Duration) int
	helperSetup func(workspace string) error
}

// NewOrchestrator wires an Orchestrator with the platform backend.
func NewOrchestrator(workspace string, store *buildconfig.Store, finder *tools.Finder, registry *Registry) *Orchestrator {
	return &Orchestrator{
		Workspace:   workspace,
		Store:       store,
		Finder:      finder,
		Registry:    registry,
		Backend:     NewBackend(),
		runTask:     task.Run,
		newMux:      func(bin string) multiplexer { return tmux.New(bin) },
		waitForPID:  WaitForProcess,
		helperSetup: EnsureHelperScript,
	}
}

// Resolve turns a configuration into a running debug session. For SITL
// configurations it returns the debugger descriptor plus the session state
// to terminate later; for hardware configurations it runs the upload
// pipeline and returns a nil descriptor, since there is nothing to attach
// to. preLaunchTask optionally names a stored configuration whose build
// must succeed first.
//
// cfg is mutated in place when defaults (the waf path) are filled in.
func (o *Orchestrator) Resolve(ctx context.Context, cfg *buildconfig.BuildConfiguration, preLaunchTask string) (desc *Descriptor, sess *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			debugLog("panic during resolution: %v", r)
			desc, sess = nil, nil
			err = ErrResolution
		}
	}()

	if cfg == nil || cfg.Name == "" {
		return nil, nil, fmt.Errorf("%w: empty debug configuration", buildconfig.ErrUserInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Waffile == "" {
		cfg.Waffile = filepath.Join(o.Workspace, "waf")
	}

	synth := task.NewSynthesizer(o.Workspace, o.Finder)

	if preLaunchTask != "" {
		pre, ok := o.Store.Get(preLaunchTask)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown pre-launch task %q", buildconfig.ErrUserInput, preLaunchTask)
		}
		preTask, _, err := synth.Create(pre)
		if err != nil {
			return nil, nil, err
		}
		if err := o.runTask(ctx, preTask); err != nil {
			return nil, nil, fmt.Errorf("pre-launch task %s failed: %w", preLaunchTask, err)
		}
	}

	if !cfg.IsSITL() {
		return nil, nil, o.runUpload(ctx, synth, cfg)
	}
	return o.resolveSITL(ctx, synth, cfg)
}

// runUpload flashes the firmware. Launch acts as run here: the pipeline is
// started and the resolution reports no descriptor.
func (o *Orchestrator) runUpload(ctx context.Context, synth *task.Synthesizer, cfg *buildconfig.BuildConfiguration) error {
	_, upload, err := synth.Create(*cfg)
	if err != nil {
		return err
	}
	if upload == nil {
		return fmt.Errorf("%w: configuration %s has no upload task", buildconfig.ErrUserInput, cfg.Name)
	}
	if err := o.runTask(ctx, upload); err != nil {
		debugLog("upload pipeline failed: %v", err)
		return err
	}
	return nil
}

func (o *Orchestrator) resolveSITL(ctx context.Context, synth *task.Synthesizer, cfg *buildconfig.BuildConfiguration) (*Descriptor, *Session, error) {
	if err := o.Backend.CheckPrerequisites(o.Finder); err != nil {
		return nil, nil, err
	}
	tmuxPath, err := o.Finder.Require(tools.Tmux)
	if err != nil {
		return nil, nil, err
	}
	if err := o.helperSetup(o.Workspace); err != nil {
		return nil, nil, err
	}

	vehicle, ok := simVehicleNames[cfg.Target]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown vehicle target %q", buildconfig.ErrUserInput, cfg.Target)
	}
	binary := buildconfig.BinaryPathFor(cfg.Board, cfg.Target)
	if binary == "" {
		return nil, nil, fmt.Errorf("%w: no firmware binary known for %s/%s", buildconfig.ErrUserInput, cfg.Board, cfg.Target)
	}

	port := PickPort(o.Registry.UsedPorts())
	simCmd := o.simCommand(vehicle, cfg.SimVehicleCommand, port)

	mux := o.newMux(tmuxPath)
	sessionName := newSessionName(cfg.Name)
	for i := 0; i < 3 && mux.HasSession(sessionName); i++ {
		sessionName = newSessionName(cfg.Name)
	}
	if err := mux.NewSession(sessionName, o.Workspace, simCmd); err != nil {
		return nil, nil, err
	}
	debugLog("started simulator session %s: %s", sessionName, simCmd)

	program := filepath.Join(o.Workspace, binary)
	pid := o.waitForPID(ctx, filepath.Base(binary), pidDiscoveryTimeout)
	if pid == 0 {
		debugLog("simulator process not discovered in time, continuing without pid")
	}

	sess := &Session{
		ConfigName:  cfg.Name,
		TmuxSession: sessionName,
		Port:        port,
		PID:         pid,
		mux:         mux,
	}
	o.Registry.Add(sess)
	return o.Backend.Descriptor(cfg.Name, program, pid, port), sess, nil
}

// newSessionName derives a unique tmux session name for a configuration.
func newSessionName(configName string) string {
	return fmt.Sprintf("apdev-%s-%s", configName, uuid.NewString()[:8])
}

// simCommand builds the simulation-launcher invocation run inside tmux.
func (o *Orchestrator) simCommand(vehicle, userFlags string, port int) string {
	python := o.Finder.Find(tools.Python)
	if python == "" {
		python = tools.Python
	}
	launcher := filepath.Join(o.Workspace, "Tools", "autotest", "sim_vehicle.py")
	parts := []string{python, launcher, "-v", vehicle, "--no-rebuild"}
	if o.Backend.NeedsRemoteServer() {
		parts = append(parts, "--gdbserver", fmt.Sprintf("--gdb-port=%d", port))
	}
	if flags := strings.TrimSpace(userFlags); flags != "" {
		parts = append(parts, flags)
	}
	return strings.Join(parts, " ")
}

// Terminate tears a session down. Cleanup is best-effort: failures are
// logged, and the session state is cleared unconditionally so the next
// session starts clean.
func (o *Orchestrator) Terminate(sess *Session) {
	if sess == nil {
		return
	}
	if sess.mux != nil && sess.TmuxSession != "" {
		if err := sess.mux.KillSession(sess.TmuxSession); err != nil {
			debugLog("failed to kill session %s: %v", sess.TmuxSession, err)
		}
	}
	o.Registry.Remove(sess.TmuxSession)
	sess.TmuxSession = ""
	sess.Port = 0
	sess.PID = 0
	sess.mux = nil
}
