package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List build configurations",
	Long:  `List the persisted build configurations, marking the active selection.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	configs := e.Store.List()
	if len(configs) == 0 {
		fmt.Println("No configurations. Create one with 'apdev configure'.")
		return nil
	}

	activeName := ""
	if current, ok := e.State.Current(); ok {
		activeName = current.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tBOARD\tTARGET\tMODE\tACTIVE")
	_, _ = fmt.Fprintln(w, "----\t-----\t------\t----\t------")
	for _, cfg := range configs {
		mode := "standard"
		if cfg.OverrideEnabled {
			mode = "override"
		} else if cfg.IsSITL() {
			mode = "sitl"
		}
		marker := ""
		if cfg.Name == activeName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", cfg.Name, cfg.Board, cfg.Target, mode, marker)
	}
	_ = w.Flush()
	return nil
}
