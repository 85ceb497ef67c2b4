// Package main provides the bpg CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// graphFlag names the graph to operate on; empty uses the repository default
	graphFlag string
	// editFlag asks for edit mode, which the admin gate must allow
	editFlag bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bpg",
	Short: "Headless blueprint graph canvas",
	Long: `bpg drives a blueprint-style node graph from the command line.

Graphs are made of event, function, variable, sequence, comment, and
project-link nodes joined by exec and data wires. bpg can edit them,
replay recorded canvas input, run the reachability simulation, and render
the canvas to a standalone HTML page.

Graphs and the project catalog live in .blueprint/blueprint.db (SQLite),
or in Redis when BPG_REDIS_URL or store.redis_url in ~/.config/bpg/config.yml
is set. All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&graphFlag, "graph", "g", "", "Graph id (default: the repository's default graph)")
	rootCmd.PersistentFlags().BoolVar(&editFlag, "edit", false, "Enable edit mode (requires "+envAdminHint+")")
	rootCmd.Version = Version
}
