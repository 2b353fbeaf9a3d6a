package cmd

import (
	"fmt"

	"github.com/apdev-io/apdev/internal/task"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [name]",
	Short: "Build and flash a hardware configuration",
	Long: `Run the configure+build+upload pipeline for the named configuration, or
for the active one when no name is given. SITL configurations have nothing
to flash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	cfg, err := pickConfiguration(e, args)
	if err != nil {
		return err
	}
	if cfg.IsSITL() {
		return fmt.Errorf("configuration %s targets the simulator; there is no hardware to flash", cfg.Name)
	}

	synth := task.NewSynthesizer(e.Workspace, e.Finder)
	_, uploadTask, err := synth.Create(cfg)
	if err != nil {
		return err
	}
	if uploadTask == nil {
		return fmt.Errorf("configuration %s has no upload task", cfg.Name)
	}

	Debug("running: %s", uploadTask.Command)
	if err := task.Run(cmd.Context(), uploadTask); err != nil {
		return err
	}
	fmt.Printf("Upload %s finished.\n", cfg.Name)
	return nil
}
