package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Select the active build configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	cfg, ok := e.Store.Get(args[0])
	if !ok {
		return fmt.Errorf("no configuration named %q - see 'apdev list'", args[0])
	}
	if err := e.State.SetActive(cfg); err != nil {
		return err
	}
	fmt.Printf("Active configuration: %s\n", cfg.Name)
	return nil
}
