package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config represents the global apdev configuration
type Config struct {
	Tools    Tools  `mapstructure:"tools"`
	SimFlags string `mapstructure:"sim_flags"`
}

// Tools contains per-tool path overrides that win over PATH discovery
type Tools struct {
	CC     string `mapstructure:"cc"`
	CXX    string `mapstructure:"cxx"`
	GDB    string `mapstructure:"gdb"`
	LLDB   string `mapstructure:"lldb"`
	Tmux   string `mapstructure:"tmux"`
	Python string `mapstructure:"python"`
}

// Overrides returns the configured tool paths keyed by bare tool name,
// omitting empty entries.
func (t *Tools) Overrides() map[string]string {
	out := make(map[string]string)
	for name, path := range map[string]string{
		"gcc":     t.CC,
		"g++":     t.CXX,
		"gdb":     t.GDB,
		"lldb":    t.LLDB,
		"tmux":    t.Tmux,
		"python3": t.Python,
	} {
		if path != "" {
			out[name] = path
		}
	}
	return out
}

// Load loads the configuration from ~/.apdev/config.yaml or returns defaults
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".apdev"))

	setDefaults(v)

	// Try to read config file, but don't fail if it doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tools.cc", "")
	v.SetDefault("tools.cxx", "")
	v.SetDefault("tools.gdb", "")
	v.SetDefault("tools.lldb", "")
	v.SetDefault("tools.tmux", "")
	v.SetDefault("tools.python", "")
	v.SetDefault("sim_flags", "")
}

// ConfigDir returns the apdev configuration directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".apdev"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, 0755)
}
