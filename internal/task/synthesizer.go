// Package task turns build configurations into runnable shell pipelines.
package task

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/tools"
)

// ErrNoWorkspace is returned when synthesis is attempted without a
// workspace root.
var ErrNoWorkspace = errors.New("no workspace root available")

// Task is an executable build pipeline derived from one configuration.
type Task struct {
	Name      string
	Command   string // full shell pipeline, stages joined with &&
	Dir       string
	Env       []string // KEY=VALUE additions to the inherited environment
	DependsOn string   // name of the task that must complete first, if any
	IsSITL    bool

	// SimVehicleCommand carries the user's extra simulator flags so the
	// debug flow can pass them through unchanged.
	SimVehicleCommand string
}

// Synthesizer builds Tasks for one workspace.
type Synthesizer struct {
	Workspace string
	Finder    *tools.Finder
}

// NewSynthesizer creates a Synthesizer rooted at the workspace.
func NewSynthesizer(workspace string, finder *tools.Finder) *Synthesizer {
	return &Synthesizer{Workspace: workspace, Finder: finder}
}

// Create synthesizes the build task for a configuration, plus the dependent
// upload task for hardware configurations (nil otherwise).
func (s *Synthesizer) Create(cfg buildconfig.BuildConfiguration) (*Task, *Task, error) {
	if s.Workspace == "" {
		return nil, nil, ErrNoWorkspace
	}
	variant, err := cfg.Variant()
	if err != nil {
		return nil, nil, err
	}

	base := &Task{
		Name:              cfg.Name,
		Dir:               s.Workspace,
		Env:               s.toolchainEnv(),
		IsSITL:            cfg.IsSITL(),
		SimVehicleCommand: cfg.SimVehicleCommand,
	}

	switch v := variant.(type) {
	case buildconfig.OverrideBuild:
		base.Command = v.ConfigureCommand + " && " + v.BuildCommand
		return base, nil, nil
	case buildconfig.StandardBuild:
		waffile := cfg.Waffile
		if waffile == "" {
			waffile = filepath.Join(s.Workspace, "waf")
		}
		configure, err := s.configureStage(waffile, v, cfg.Features)
		if err != nil {
			return nil, nil, err
		}
		build := buildStage(waffile, v, false)
		base.Command = configure + " && " + build

		if cfg.IsSITL() {
			return base, nil, nil
		}
		upload := &Task{
			Name:      buildconfig.UploadTaskName(cfg.Name),
			Command:   configure + " && " + buildStage(waffile, v, true),
			Dir:       s.Workspace,
			Env:       base.Env,
			DependsOn: cfg.Name,
		}
		return base, upload, nil
	default:
		return nil, nil, fmt.Errorf("unsupported configuration shape %T", variant)
	}
}

func (s *Synthesizer) configureStage(waffile string, v buildconfig.StandardBuild, features []string) (string, error) {
	parts := []string{waffile, "configure", "--board=" + v.Board}
	if len(features) > 0 {
		hwdef, err := WriteFeatureDefinitions(filepath.Join(s.Workspace, "build", v.Board), features)
		if err != nil {
			return "", err
		}
		if hwdef != "" {
			parts = append(parts, "--extra-hwdef="+hwdef)
		}
	}
	if v.ConfigureOptions != "" {
		parts = append(parts, v.ConfigureOptions)
	}
	return strings.Join(parts, " "), nil
}

func buildStage(waffile string, v buildconfig.StandardBuild, upload bool) string {
	parts := []string{waffile, v.Target}
	if v.BuildOptions != "" {
		parts = append(parts, v.BuildOptions)
	}
	if upload {
		parts = append(parts, "--upload")
	}
	return strings.Join(parts, " ")
}

// toolchainEnv resolves the compiler toolchain and returns CC/CXX overrides
// for any tool whose discovered path differs from the bare command name. A
// failed resolution never overrides a working default.
func (s *Synthesizer) toolchainEnv() []string {
	var env []string
	if cc := s.Finder.Find(tools.CC); cc != "" && cc != tools.CC {
		env = append(env, "CC="+cc)
	}
	if cxx := s.Finder.Find(tools.CXX); cxx != "" && cxx != tools.CXX {
		env = append(env, "CXX="+cxx)
	}
	return env
}
