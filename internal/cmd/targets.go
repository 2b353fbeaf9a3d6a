package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/apdev-io/apdev/internal/catalog"
	"github.com/apdev-io/apdev/internal/tools"
	"github.com/spf13/cobra"
)

var targetsSuggest bool

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List boards and vehicle targets the tree can build",
	Long: `Invoke the firmware tree's own target enumeration and list the boards
and vehicle targets it advertises.`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsSuggest, "suggest", false, "only show pairs with no configuration yet")
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	lister := catalog.NewLister(e.Workspace, e.Finder.Find(tools.Python))
	entries := lister.List(cmd.Context())
	if len(entries) == 0 {
		fmt.Println("No targets discovered. Is this an ArduPilot tree with a working waf?")
		return nil
	}

	if targetsSuggest {
		existing := make(map[string]bool)
		for _, cfg := range e.Store.List() {
			existing[cfg.Name] = true
		}
		suggestions := catalog.Suggestions(entries, existing)
		if len(suggestions) == 0 {
			fmt.Println("Every discovered board/target pair already has a configuration.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tBOARD\tTARGET")
		for _, s := range suggestions {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Board, s.Target)
		}
		_ = w.Flush()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BOARD\tTARGETS")
	_, _ = fmt.Fprintln(w, "-----\t-------")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", entry.Board, strings.Join(entry.Targets, ", "))
	}
	_ = w.Flush()
	return nil
}
