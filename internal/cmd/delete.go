package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a build configuration",
	Long: `Delete a named build configuration. The hardware upload companion
(<name>-upload), if present, is removed with it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.Store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Configuration %s deleted.\n", args[0])
	return nil
}
