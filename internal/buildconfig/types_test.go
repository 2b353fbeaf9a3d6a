package buildconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BuildConfiguration
		wantErr bool
	}{
		{
			name: "standard build",
			cfg:  BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter"},
		},
		{
			name:    "missing board",
			cfg:     BuildConfiguration{Name: "x", Target: "copter"},
			wantErr: true,
		},
		{
			name:    "missing target",
			cfg:     BuildConfiguration{Name: "x", Board: "sitl"},
			wantErr: true,
		},
		{
			name:    "missing name",
			cfg:     BuildConfiguration{Board: "sitl", Target: "copter"},
			wantErr: true,
		},
		{
			name: "override build",
			cfg: BuildConfiguration{
				Name:                   "custom",
				OverrideEnabled:        true,
				CustomConfigureCommand: "./waf configure --board sitl",
				CustomBuildCommand:     "./waf copter",
			},
		},
		{
			name: "override missing configure command",
			cfg: BuildConfiguration{
				Name:               "custom",
				OverrideEnabled:    true,
				CustomBuildCommand: "./waf copter",
			},
			wantErr: true,
		},
		{
			name: "override with standard fields set",
			cfg: BuildConfiguration{
				Name:                   "custom",
				Board:                  "sitl",
				OverrideEnabled:        true,
				CustomConfigureCommand: "a",
				CustomBuildCommand:     "b",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUserInput)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestVariantShapes(t *testing.T) {
	std := BuildConfiguration{Name: "sitl-copter", Board: "sitl", Target: "copter", BuildOptions: "-j8"}
	v, err := std.Variant()
	require.NoError(t, err)
	s, ok := v.(StandardBuild)
	require.True(t, ok)
	assert.Equal(t, "sitl", s.Board)
	assert.Equal(t, "-j8", s.BuildOptions)

	ovr := BuildConfiguration{
		Name:                   "custom",
		OverrideEnabled:        true,
		CustomConfigureCommand: "configure-cmd",
		CustomBuildCommand:     "build-cmd",
	}
	v, err = ovr.Variant()
	require.NoError(t, err)
	o, ok := v.(OverrideBuild)
	require.True(t, ok)
	assert.Equal(t, "configure-cmd", o.ConfigureCommand)
	assert.Equal(t, "build-cmd", o.BuildCommand)
}

func TestIsSITL(t *testing.T) {
	assert.True(t, (&BuildConfiguration{Board: "sitl"}).IsSITL())
	assert.True(t, (&BuildConfiguration{Board: "SITL"}).IsSITL())
	assert.True(t, (&BuildConfiguration{Board: "sitl_periph_gps"}).IsSITL())
	assert.False(t, (&BuildConfiguration{Board: "CubeOrange"}).IsSITL())
}

func TestUploadTaskName(t *testing.T) {
	assert.Equal(t, "cube-plane-upload", UploadTaskName("cube-plane"))
}
