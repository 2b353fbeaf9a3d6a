package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	debugpkg "github.com/apdev-io/apdev/internal/debug"
	"github.com/apdev-io/apdev/internal/task"
	"github.com/apdev-io/apdev/internal/tools"
	"github.com/spf13/cobra"
)

var sitlCmd = &cobra.Command{
	Use:   "sitl [name]",
	Short: "Run the simulator for a SITL configuration",
	Long: `Launch the vehicle simulator in the foreground for the named (or active)
SITL configuration, without attaching a debugger.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSitl,
}

func init() {
	rootCmd.AddCommand(sitlCmd)
}

func runSitl(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	cfg, err := pickConfiguration(e, args)
	if err != nil {
		return err
	}
	if !cfg.IsSITL() {
		return fmt.Errorf("configuration %s is not a SITL configuration", cfg.Name)
	}

	vehicle, ok := debugpkg.SimVehicleName(cfg.Target)
	if !ok {
		return fmt.Errorf("target %q cannot be simulated", cfg.Target)
	}

	python := e.Finder.Find(tools.Python)
	if python == "" {
		python = tools.Python
	}
	launcher := filepath.Join(e.Workspace, "Tools", "autotest", "sim_vehicle.py")

	parts := []string{python, launcher, "-v", vehicle}
	if flags := strings.TrimSpace(cfg.SimVehicleCommand); flags != "" {
		parts = append(parts, flags)
	}
	if flags := strings.TrimSpace(e.Config.SimFlags); flags != "" {
		parts = append(parts, flags)
	}

	simTask := &task.Task{
		Name:    cfg.Name + "-sim",
		Command: strings.Join(parts, " "),
		Dir:     e.Workspace,
	}
	Debug("running: %s", simTask.Command)
	return task.Run(cmd.Context(), simTask)
}
