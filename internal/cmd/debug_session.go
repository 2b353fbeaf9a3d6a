package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	debugpkg "github.com/apdev-io/apdev/internal/debug"
	"github.com/spf13/cobra"
)

var debugPreLaunch string

var debugCmd = &cobra.Command{
	Use:   "debug [name]",
	Short: "Start a debug session for a configuration",
	Long: `Resolve a debug session for the named configuration (or the active one).

For SITL configurations this starts the simulator inside a tmux session,
waits for its process, and prints the debugger attach/launch descriptor;
the session is torn down on Ctrl-C. For hardware configurations the
configure+upload pipeline runs instead, since there is nothing to attach to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().StringVar(&debugPreLaunch, "pre-launch", "", "configuration whose build must succeed before debugging")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	cfg, err := pickConfiguration(e, args)
	if err != nil {
		return err
	}

	orch := debugpkg.NewOrchestrator(e.Workspace, e.Store, e.Finder, debugpkg.NewRegistry())
	desc, sess, err := orch.Resolve(cmd.Context(), &cfg, debugPreLaunch)
	if err != nil {
		return err
	}
	if desc == nil {
		// Hardware branch: the upload pipeline already ran.
		fmt.Printf("Flashed %s.\n", cfg.Name)
		return nil
	}

	out, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	fmt.Printf("\nSimulator running in tmux session %s (port %d). Ctrl-C to end the session.\n", sess.TmuxSession, sess.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-cmd.Context().Done():
	}

	fmt.Println("\nEnding debug session...")
	orch.Terminate(sess)
	return nil
}
