package cmd

import (
	"fmt"

	"github.com/apdev-io/apdev/internal/catalog"
	"github.com/apdev-io/apdev/internal/tools"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the tree manifest and refresh the target catalog",
	Long: `Watch the workspace wscript and re-enumerate boards and targets
whenever it changes. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	lister := catalog.NewLister(e.Workspace, e.Finder.Find(tools.Python))
	refresh := func() {
		entries := lister.List(cmd.Context())
		fmt.Printf("Catalog refreshed: %d boards\n", len(entries))
		for _, entry := range entries {
			Debug("  %s: %v", entry.Board, entry.Targets)
		}
	}

	refresh()
	fmt.Println("Watching wscript for changes... (Ctrl-C to stop)")
	err = catalog.Watch(cmd.Context(), e.Workspace, refresh)
	if err != nil && cmd.Context().Err() != nil {
		return nil
	}
	return err
}
