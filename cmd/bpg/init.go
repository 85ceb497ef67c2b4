package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a blueprint repository in the current directory",
	Long: `Create .blueprint/ with a default config.json and an empty blueprint.db.

The default graph (EventGraph) starts with the career timeline until it is
first edited.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	if config.IsRepository(cwd) {
		exitWithError(ExitConfigError, "repository already initialized at %s", config.BlueprintPath(cwd))
	}

	if err := os.MkdirAll(config.BlueprintPath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.BlueprintDir, err)
	}
	cfg := &config.Config{DefaultGraph: config.DefaultGraphID}
	if err := cfg.Save(cwd); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	// Creating the store here surfaces driver problems at init time.
	kv := mustOpenStore(cwd)
	kv.Close()

	if humanOutput {
		outputHuman("%s Initialized blueprint repository in %s\n", statusIcon(true), config.BlueprintPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.BlueprintPath(cwd)})
	}
	return nil
}
