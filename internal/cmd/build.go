package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/task"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [name]",
	Short: "Build a configuration",
	Long: `Run the configure+build pipeline for the named configuration, or for
the active one when no name is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	cfg, err := pickConfiguration(e, args)
	if err != nil {
		return err
	}

	warnOnBoardSwitch(e.Workspace, cfg.Board)

	synth := task.NewSynthesizer(e.Workspace, e.Finder)
	baseTask, _, err := synth.Create(cfg)
	if err != nil {
		return err
	}

	Debug("running: %s", baseTask.Command)
	if err := task.Run(cmd.Context(), baseTask); err != nil {
		return err
	}
	rememberBoard(e.Workspace, cfg.Board)
	fmt.Printf("Build %s finished.\n", cfg.Name)
	return nil
}

func pickConfiguration(e *env, args []string) (buildconfig.BuildConfiguration, error) {
	if len(args) == 1 {
		cfg, ok := e.Store.Get(args[0])
		if !ok {
			return buildconfig.BuildConfiguration{}, fmt.Errorf("no configuration named %q - see 'apdev list'", args[0])
		}
		return cfg, nil
	}
	return e.requireActive()
}

// boardMarker records the last configured board so a board switch can warn
// about stale build state.
const boardMarker = "build/.apdev-board"

func warnOnBoardSwitch(workspace, board string) {
	if board == "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(workspace, filepath.FromSlash(boardMarker)))
	if err != nil {
		return
	}
	last := strings.TrimSpace(string(data))
	if last != "" && last != board {
		fmt.Printf("Note: last build was for board %s; a distclean may be needed when switching to %s.\n", last, board)
	}
}

func rememberBoard(workspace, board string) {
	if board == "" {
		return
	}
	path := filepath.Join(workspace, filepath.FromSlash(boardMarker))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte(board+"\n"), 0644)
}
