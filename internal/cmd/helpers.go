package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apdev-io/apdev/internal/active"
	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/config"
	"github.com/apdev-io/apdev/internal/tools"
)

// env bundles the collaborators most commands need.
type env struct {
	Workspace string
	Config    *config.Config
	Store     *buildconfig.Store
	Finder    *tools.Finder
	State     *active.State
}

// newEnv resolves the workspace, opens the store (running the legacy-record
// migration), and loads the selection.
func newEnv() (*env, error) {
	if debug {
		_ = os.Setenv("APDEV_DEBUG", "1")
	}

	workspace, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := buildconfig.NewStore(workspace)
	if err != nil {
		return nil, err
	}
	if migrated, err := store.MigrateLegacyRecords(); err != nil {
		Debug("legacy record migration failed: %v", err)
	} else if migrated {
		Debug("migrated legacy configuration records")
	}

	state := active.New(store)
	state.LoadDefault()

	return &env{
		Workspace: workspace,
		Config:    cfg,
		Store:     store,
		Finder:    tools.NewFinder(cfg.Tools.Overrides()),
		State:     state,
	}, nil
}

// resolveWorkspace returns the firmware tree root: the --workspace flag if
// given, otherwise the nearest ancestor of the working directory that
// contains a wscript manifest.
func resolveWorkspace() (string, error) {
	if workspaceFlag != "" {
		abs, err := filepath.Abs(workspaceFlag)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "wscript")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no workspace root found: no wscript above %s (use --workspace)", cwd)
		}
		dir = parent
	}
}

// requireActive returns the selected configuration or a friendly error.
func (e *env) requireActive() (buildconfig.BuildConfiguration, error) {
	cfg, ok := e.State.Current()
	if !ok {
		return buildconfig.BuildConfiguration{}, fmt.Errorf("no configuration selected - create one with 'apdev configure' or select one with 'apdev select'")
	}
	return cfg, nil
}
