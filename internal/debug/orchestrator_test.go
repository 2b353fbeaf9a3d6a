package debug

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/task"
	"github.com/apdev-io/apdev/internal/tools"
)

// fakeBackend stands in for the platform debugger so these tests behave the
// same on every OS.
type fakeBackend struct {
	remote    bool
	missing   bool
	lastPid   int
	lastPort  int
	lastdescr *Descriptor
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) CheckPrerequisites(f *tools.Finder) error {
	if b.missing {
		return fmt.Errorf("%w: fake", tools.ErrToolMissing)
	}
	return nil
}

func (b *fakeBackend) NeedsRemoteServer() bool { return b.remote }

func (b *fakeBackend) Descriptor(configName, program string, pid, port int) *Descriptor {
	b.lastPid = pid
	b.lastPort = port
	b.lastdescr = &Descriptor{
		Type:                    "cppdbg",
		Request:                 "launch",
		Name:                    "Debug " + configName,
		Program:                 program,
		MIDebuggerServerAddress: fmt.Sprintf("localhost:%d", port),
	}
	return b.lastdescr
}

type fakeMux struct {
	newSessions  []string
	commands     []string
	killed       []string
	queried      []string
	collisions   int
	newSessionEr error
}

func (m *fakeMux) NewSession(name, dir, command string) error {
	m.newSessions = append(m.newSessions, name)
	m.commands = append(m.commands, command)
	return m.newSessionEr
}

func (m *fakeMux) HasSession(name string) bool {
	m.queried = append(m.queried, name)
	if m.collisions > 0 {
		m.collisions--
		return true
	}
	return false
}

func (m *fakeMux) KillSession(name string) error {
	m.killed = append(m.killed, name)
	return nil
}

type orchFixture struct {
	orch    *Orchestrator
	mux     *fakeMux
	backend *fakeBackend
	ranCmds []string
}

func newFixture(t *testing.T) *orchFixture {
	t.Helper()
	ws := t.TempDir()
	store, err := buildconfig.NewStore(ws)
	require.NoError(t, err)

	fx := &orchFixture{
		mux:     &fakeMux{},
		backend: &fakeBackend{remote: true},
	}
	finder := tools.NewFinder(map[string]string{
		"tmux":    "/usr/bin/tmux",
		"python3": "/usr/bin/python3",
		"gcc":     "gcc",
		"g++":     "g++",
	})
	orch := &Orchestrator{
		Workspace: ws,
		Store:     store,
		Finder:    finder,
		Registry:  NewRegistry(),
		Backend:   fx.backend,
		runTask: func(ctx context.Context, tk *task.Task) error {
			fx.ranCmds = append(fx.ranCmds, tk.Command)
			return nil
		},
		newMux: func(bin string) multiplexer { return fx.mux },
		waitForPID: func(ctx context.Context, pattern string, timeout time.Duration) int {
			return 4242
		},
		helperSetup: func(workspace string) error { return nil },
	}
	fx.orch = orch
	return fx
}

func TestResolveSITL(t *testing.T) {
	fx := newFixture(t)
	cfg := &buildconfig.BuildConfiguration{
		Name:              "sitl-copter",
		Board:             "sitl",
		Target:            "copter",
		SimVehicleCommand: "--map --console",
	}

	desc, sess, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.NotNil(t, sess)

	assert.Equal(t, "cppdbg", desc.Type)
	assert.Equal(t, fmt.Sprintf("localhost:%d", sess.Port), desc.MIDebuggerServerAddress)
	assert.Equal(t, filepath.Join(fx.orch.Workspace, "build", "sitl", "bin", "arducopter"), desc.Program)
	assert.Equal(t, 4242, sess.PID)

	// Simulator runs inside a uniquely named tmux session with the user's
	// flags and the debug-server port.
	require.Len(t, fx.mux.newSessions, 1)
	assert.True(t, strings.HasPrefix(fx.mux.newSessions[0], "apdev-sitl-copter-"))
	assert.Contains(t, fx.mux.commands[0], "sim_vehicle.py")
	assert.Contains(t, fx.mux.commands[0], "-v ArduCopter")
	assert.Contains(t, fx.mux.commands[0], "--map --console")
	assert.Contains(t, fx.mux.commands[0], fmt.Sprintf("--gdb-port=%d", sess.Port))

	// Waffile default is filled onto the caller's configuration.
	assert.Equal(t, filepath.Join(fx.orch.Workspace, "waf"), cfg.Waffile)

	assert.Len(t, fx.orch.Registry.UsedPorts(), 1)
}

func TestResolveHardwareRunsUpload(t *testing.T) {
	fx := newFixture(t)
	cfg := &buildconfig.BuildConfiguration{Name: "cube-plane", Board: "CubeOrange", Target: "plane"}

	desc, sess, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.NoError(t, err)
	assert.Nil(t, desc, "hardware configurations produce no debug descriptor")
	assert.Nil(t, sess)

	require.Len(t, fx.ranCmds, 1)
	assert.Contains(t, fx.ranCmds[0], "plane")
	assert.Contains(t, fx.ranCmds[0], "--upload")
	assert.Empty(t, fx.mux.newSessions)
}

func TestResolveEmptyConfiguration(t *testing.T) {
	fx := newFixture(t)
	_, _, err := fx.orch.Resolve(context.Background(), &buildconfig.BuildConfiguration{}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, buildconfig.ErrUserInput)

	_, _, err = fx.orch.Resolve(context.Background(), nil, "")
	assert.ErrorIs(t, err, buildconfig.ErrUserInput)
}

func TestResolveMissingDebugger(t *testing.T) {
	fx := newFixture(t)
	fx.backend.missing = true
	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}

	_, _, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, tools.ErrToolMissing)
	assert.Empty(t, fx.mux.newSessions)
}

func TestResolveMissingTmux(t *testing.T) {
	fx := newFixture(t)
	fx.orch.Finder = tools.NewFinder(map[string]string{"python3": "/usr/bin/python3"})
	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}

	_, _, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, tools.ErrToolMissing)
}

func TestResolvePreLaunchTask(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.orch.Store.GetOrCreate(buildconfig.BuildConfiguration{
		Name: "sitl-copter", Board: "sitl", Target: "copter",
	})
	require.NoError(t, err)

	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}
	_, sess, err := fx.orch.Resolve(context.Background(), cfg, "sitl-copter")
	require.NoError(t, err)
	require.NotNil(t, sess)

	// The pre-launch build ran before the simulator started.
	require.Len(t, fx.ranCmds, 1)
	assert.Contains(t, fx.ranCmds[0], "--board=sitl")
}

func TestResolvePreLaunchTaskUnknown(t *testing.T) {
	fx := newFixture(t)
	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}

	_, _, err := fx.orch.Resolve(context.Background(), cfg, "no-such-task")
	require.Error(t, err)
	assert.ErrorIs(t, err, buildconfig.ErrUserInput)
}

func TestResolvePreLaunchTaskFailure(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.orch.Store.GetOrCreate(buildconfig.BuildConfiguration{
		Name: "sitl-copter", Board: "sitl", Target: "copter",
	})
	require.NoError(t, err)
	fx.orch.runTask = func(ctx context.Context, tk *task.Task) error {
		return errors.New("exit status 2")
	}

	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}
	_, _, err = fx.orch.Resolve(context.Background(), cfg, "sitl-copter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-launch")
	assert.Empty(t, fx.mux.newSessions)
}

func TestTerminate(t *testing.T) {
	fx := newFixture(t)
	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}
	_, sess, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.NoError(t, err)

	name := sess.TmuxSession
	fx.orch.Terminate(sess)

	assert.Equal(t, []string{name}, fx.mux.killed)
	assert.Empty(t, fx.orch.Registry.UsedPorts())
	assert.Empty(t, sess.TmuxSession)
	assert.Zero(t, sess.Port)
	assert.Zero(t, sess.PID)

	// Terminating again, or a nil session, must be harmless.
	fx.orch.Terminate(sess)
	fx.orch.Terminate(nil)
	assert.Len(t, fx.mux.killed, 1)
}

func TestResolveRetriesCollidingSessionNames(t *testing.T) {
	fx := newFixture(t)
	fx.mux.collisions = 2
	cfg := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}

	_, sess, err := fx.orch.Resolve(context.Background(), cfg, "")
	require.NoError(t, err)

	// Two colliding candidates were rejected before the third stuck.
	require.Len(t, fx.mux.queried, 3)
	assert.NotEqual(t, fx.mux.queried[0], sess.TmuxSession)
	assert.NotEqual(t, fx.mux.queried[1], sess.TmuxSession)
	assert.Equal(t, []string{sess.TmuxSession}, fx.mux.newSessions)
}

func TestResolveConcurrentSessionsDistinct(t *testing.T) {
	fx := newFixture(t)
	a := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}
	b := &buildconfig.BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"}

	_, sessA, err := fx.orch.Resolve(context.Background(), a, "")
	require.NoError(t, err)
	_, sessB, err := fx.orch.Resolve(context.Background(), b, "")
	require.NoError(t, err)

	assert.NotEqual(t, sessA.TmuxSession, sessB.TmuxSession)
	assert.NotEqual(t, sessA.Port, sessB.Port)
}
