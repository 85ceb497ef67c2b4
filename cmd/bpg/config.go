package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set repository configuration values",
	Long: `Get or set values in .blueprint/config.json.

Usage:
  bpg config get                      # Show all config
  bpg config get default-graph        # Get specific value
  bpg config set default-graph Intro  # Set value

Keys:
  default-graph  Graph opened when --graph is not given (default EventGraph)
  view-width     Canvas width used to place new nodes (default 1280)
  view-height    Canvas height used to place new nodes (default 800)`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all configuration values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	keys := config.Keys
	if len(args) == 1 {
		keys = []string{normalizeKey(args[0])}
	}

	values := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := cfg.Get(k)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		values[k] = v
	}

	if humanOutput {
		for _, k := range keys {
			if len(keys) == 1 {
				fmt.Println(values[k])
			} else {
				fmt.Printf("%-14s %s\n", displayKey(k)+":", values[k])
			}
		}
	} else {
		outputJSON(values)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	key, value := normalizeKey(args[0]), args[1]
	if err := cfg.Set(key, value); err != nil {
		code := ExitConfigError
		if errors.Is(err, config.ErrUnknownKey) {
			code = ExitError
		}
		exitWithError(code, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", displayKey(key), value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey converts key formats (default-graph, default_graph, DEFAULT_GRAPH) to the stored form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}

func displayKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
