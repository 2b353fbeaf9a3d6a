package cmd

import (
	"fmt"

	"github.com/apdev-io/apdev/internal/buildconfig"
	"github.com/apdev-io/apdev/internal/task"
	"github.com/spf13/cobra"
)

var (
	configureBoard       string
	configureTarget      string
	configureName        string
	configureOptions     string
	configureBuildOpts   string
	configureSimCommand  string
	configureOverride    bool
	configureCustomConf  string
	configureCustomBuild string
	configureFeatures    []string
	configureWaffile     string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Create or update a build configuration",
	Long: `Create a named build configuration, or replace an existing one with the
same name. New configurations become the active selection.

Examples:
  apdev configure --board sitl --target copter --sim-command "--map --console"
  apdev configure --board CubeOrange --target plane
  apdev configure --name custom --override \
      --custom-configure "./waf configure --board sitl" \
      --custom-build "./waf copter"`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVarP(&configureBoard, "board", "b", "", "board to build for (e.g. sitl, CubeOrange)")
	configureCmd.Flags().StringVarP(&configureTarget, "target", "t", "", "vehicle target (e.g. copter, plane)")
	configureCmd.Flags().StringVarP(&configureName, "name", "n", "", "configuration name (default: board-target)")
	configureCmd.Flags().StringVar(&configureOptions, "configure-options", "", "extra flags for the configure stage")
	configureCmd.Flags().StringVar(&configureBuildOpts, "build-options", "", "extra flags for the build stage")
	configureCmd.Flags().StringVar(&configureSimCommand, "sim-command", "", "extra simulator flags (SITL only)")
	configureCmd.Flags().BoolVar(&configureOverride, "override", false, "use literal custom commands instead of synthesized ones")
	configureCmd.Flags().StringVar(&configureCustomConf, "custom-configure", "", "custom configure command (override mode)")
	configureCmd.Flags().StringVar(&configureCustomBuild, "custom-build", "", "custom build command (override mode)")
	configureCmd.Flags().StringArrayVar(&configureFeatures, "feature", nil, "feature toggle, '!'-prefixed to disable (repeatable)")
	configureCmd.Flags().StringVar(&configureWaffile, "waffile", "", "path to the waf entry point (default: <workspace>/waf)")

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	name := configureName
	if name == "" {
		name = configureBoard + "-" + configureTarget
	}

	cfg := buildconfig.BuildConfiguration{
		Name:                   name,
		Board:                  configureBoard,
		Target:                 configureTarget,
		ConfigureOptions:       configureOptions,
		BuildOptions:           configureBuildOpts,
		SimVehicleCommand:      configureSimCommand,
		OverrideEnabled:        configureOverride,
		CustomConfigureCommand: configureCustomConf,
		CustomBuildCommand:     configureCustomBuild,
		Waffile:                configureWaffile,
		Features:               configureFeatures,
	}

	stored, err := e.Store.GetOrCreate(cfg)
	if err != nil {
		return err
	}

	// Validate that the record actually synthesizes before declaring it good.
	synth := task.NewSynthesizer(e.Workspace, e.Finder)
	baseTask, uploadTask, err := synth.Create(stored)
	if err != nil {
		return err
	}

	if err := e.State.SetActive(stored); err != nil {
		return err
	}

	fmt.Printf("Configuration %s saved and selected.\n", stored.Name)
	Debug("build command: %s", baseTask.Command)
	if uploadTask != nil {
		fmt.Printf("Upload task %s created (depends on %s).\n", uploadTask.Name, uploadTask.DependsOn)
	}
	return nil
}
