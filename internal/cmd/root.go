package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	workspaceFlag string
	debug         bool
)

// Debug prints a message if debug mode is enabled
func Debug(format string, args ...interface{}) {
	if debug {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "apdev",
	Short: "apdev - ArduPilot build and debug environments",
	Long: `apdev manages reproducible board+vehicle build configurations for an
ArduPilot tree: it synthesizes configure/build pipelines, flashes hardware,
and drives SITL debug sessions under tmux.

Create a configuration and build it:
  apdev configure --board sitl --target copter
  apdev build

Debug the active configuration:
  apdev debug

List configurations and discovered targets:
  apdev list
  apdev targets`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "C", "", "firmware tree root (default: found upward from the current directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
