package buildconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUserInput is returned when a configuration fails validation. Callers
// surface it directly to the user; nothing has been persisted when it is set.
var ErrUserInput = errors.New("invalid configuration")

// BuildConfiguration is one persisted board+vehicle build description.
// Exactly one of the two shapes is populated: a standard build carries
// Board/Target plus option strings, an override build carries the two
// literal commands and nothing else. Variant() returns the populated shape.
type BuildConfiguration struct {
	Name                   string   `mapstructure:"configName" yaml:"configName"`
	Board                  string   `mapstructure:"board" yaml:"board,omitempty"`
	Target                 string   `mapstructure:"target" yaml:"target,omitempty"`
	ConfigureOptions       string   `mapstructure:"configureOptions" yaml:"configureOptions,omitempty"`
	BuildOptions           string   `mapstructure:"buildOptions" yaml:"buildOptions,omitempty"`
	SimVehicleCommand      string   `mapstructure:"simVehicleCommand" yaml:"simVehicleCommand,omitempty"`
	OverrideEnabled        bool     `mapstructure:"overrideEnabled" yaml:"overrideEnabled,omitempty"`
	CustomConfigureCommand string   `mapstructure:"customConfigureCommand" yaml:"customConfigureCommand,omitempty"`
	CustomBuildCommand     string   `mapstructure:"customBuildCommand" yaml:"customBuildCommand,omitempty"`
	Waffile                string   `mapstructure:"waffile" yaml:"waffile,omitempty"`
	Features               []string `mapstructure:"features" yaml:"features,omitempty"`
}

// StandardBuild is the configure-then-build shape of a configuration.
type StandardBuild struct {
	Board            string
	Target           string
	ConfigureOptions string
	BuildOptions     string
}

// OverrideBuild replaces the synthesized pipeline with two literal commands.
type OverrideBuild struct {
	ConfigureCommand string
	BuildCommand     string
}

// Variant validates the record and returns its populated shape.
func (c *BuildConfiguration) Variant() (any, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.OverrideEnabled {
		return OverrideBuild{
			ConfigureCommand: c.CustomConfigureCommand,
			BuildCommand:     c.CustomBuildCommand,
		}, nil
	}
	return StandardBuild{
		Board:            c.Board,
		Target:           c.Target,
		ConfigureOptions: c.ConfigureOptions,
		BuildOptions:     c.BuildOptions,
	}, nil
}

// Validate checks the required-field combinations for the record's shape.
func (c *BuildConfiguration) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: configName is required", ErrUserInput)
	}
	if c.OverrideEnabled {
		if strings.TrimSpace(c.CustomConfigureCommand) == "" || strings.TrimSpace(c.CustomBuildCommand) == "" {
			return fmt.Errorf("%w: override mode requires both custom configure and build commands", ErrUserInput)
		}
		if c.Board != "" || c.Target != "" || c.ConfigureOptions != "" || c.BuildOptions != "" {
			return fmt.Errorf("%w: override mode must not set board, target or option fields", ErrUserInput)
		}
		return nil
	}
	if strings.TrimSpace(c.Board) == "" || strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("%w: board and target are required", ErrUserInput)
	}
	return nil
}

// IsSITL reports whether the configuration targets the software-in-the-loop
// simulator. SITL configurations never carry a hardware upload task.
func (c *BuildConfiguration) IsSITL() bool {
	return strings.HasPrefix(strings.ToLower(c.Board), "sitl")
}

// UploadTaskName returns the name of the hardware upload companion task.
func UploadTaskName(configName string) string {
	return configName + "-upload"
}

// IsUploadName reports whether a configuration name follows the upload
// companion naming convention.
func IsUploadName(configName string) bool {
	return strings.HasSuffix(configName, "-upload")
}
