package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/config"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/storage"
)

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphListCmd)
	graphCmd.AddCommand(graphShowCmd)
	graphCmd.AddCommand(graphCheckCmd)
	graphCmd.AddCommand(graphRmCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect stored graphs",
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List graphs with stored nodes",
	Args:  cobra.NoArgs,
	RunE:  runGraphList,
}

var graphShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the nodes and connections of a graph",
	Args:  cobra.NoArgs,
	RunE:  runGraphShow,
}

var graphCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report connections whose endpoints are missing",
	Long: `Report connections that reference nodes no longer in the graph.

Such connections are kept in storage but never drawn. Exits with status 3
when any are found.`,
	Args: cobra.NoArgs,
	RunE: runGraphCheck,
}

var graphRmCmd = &cobra.Command{
	Use:   "rm <graph-id>",
	Short: "Delete a stored graph (requires --edit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraphRm,
}

// GraphListEntry is one row of graph list.
type GraphListEntry struct {
	ID      string `json:"id"`
	Default bool   `json:"default"`
	Stored  bool   `json:"stored"`
}

// GraphCheckResult is the response for the graph check command.
type GraphCheckResult struct {
	Status      string                  `json:"status"`
	Graph       string                  `json:"graph"`
	Nodes       int                     `json:"nodes"`
	Connections int                     `json:"connections"`
	Stale       []graph.StaleConnection `json:"stale"`
}

func runGraphList(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg := mustLoadConfig(root)
	kv := mustOpenStore(root)
	defer kv.Close()

	ids, err := storage.NewRepository(kv).Graphs()
	if err != nil {
		exitWithError(ExitDataError, "listing graphs: %v", err)
	}

	def := cfg.Graph()
	entries := make([]GraphListEntry, 0, len(ids)+1)
	for _, id := range ids {
		entries = append(entries, GraphListEntry{ID: id, Default: id == def, Stored: true})
	}
	if !slices.Contains(ids, def) {
		entries = append([]GraphListEntry{{ID: def, Default: true}}, entries...)
	}

	if humanOutput {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			mark := ""
			if e.Default {
				mark = "*"
			}
			rows = append(rows, []string{mark, e.ID, strconv.FormatBool(e.Stored)})
		}
		printTable([]string{"", "GRAPH", "STORED"}, rows)
	} else {
		outputJSON(entries)
	}
	return nil
}

func runGraphShow(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	g := a.sess.Graph()
	if !humanOutput {
		out, err := a.sess.Export()
		if err != nil {
			a.exit(ExitError, "encoding graph: %v", err)
		}
		fmt.Println(string(out))
		return nil
	}

	styleTitle.Printf("%s\n", a.sess.GraphID())
	fmt.Printf("%d nodes, %d connections\n\n", g.Nodes.Len(), g.Connections.Len())
	rows := make([][]string, 0, g.Nodes.Len())
	for _, n := range g.Nodes.List() {
		rows = append(rows, []string{
			n.ID,
			string(n.Type),
			truncateString(n.Title, ListTitleMaxLen),
			fmt.Sprintf("%g,%g", n.X, n.Y),
		})
	}
	printTable([]string{"ID", "TYPE", "TITLE", "POS"}, rows)

	if g.Connections.Len() > 0 {
		fmt.Println()
		rows = rows[:0]
		for _, c := range g.Connections.List() {
			kind := "exec"
			if c.IsData {
				kind = "data"
			}
			rows = append(rows, []string{c.ID, c.From + "." + c.FromPin, c.To + "." + c.ToPin, kind})
		}
		printTable([]string{"CONNECTION", "FROM", "TO", "KIND"}, rows)
	}
	return nil
}

func runGraphCheck(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	g := a.sess.Graph()
	res := GraphCheckResult{
		Status:      "ok",
		Graph:       a.sess.GraphID(),
		Nodes:       g.Nodes.Len(),
		Connections: g.Connections.Len(),
		Stale:       a.sess.Stale(),
	}
	if res.Stale == nil {
		res.Stale = []graph.StaleConnection{}
	}
	if len(res.Stale) > 0 {
		res.Status = "stale_connections"
	}

	if humanOutput {
		fmt.Printf("%s %s: %d nodes, %d connections\n", statusIcon(len(res.Stale) == 0), res.Graph, res.Nodes, res.Connections)
		for _, s := range res.Stale {
			fmt.Printf("  %s %s -> %s (%s)\n", styleBad.Sprint(s.ID), s.From, s.To, s.Reason)
		}
	} else {
		outputJSON(res)
	}

	if len(res.Stale) > 0 {
		a.Close()
		os.Exit(ExitDataError)
	}
	return nil
}

func runGraphRm(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := config.ValidateGraphID(id); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	mustRequireEdit()

	root := mustFindRepository()
	kv := mustOpenStore(root)
	defer kv.Close()

	if err := storage.NewRepository(kv).DeleteGraph(id); err != nil {
		kv.Close()
		exitWithError(ExitDataError, "deleting graph: %v", err)
	}

	if humanOutput {
		fmt.Printf("Deleted graph %s\n", id)
	} else {
		outputJSON(StatusResponse{Status: "deleted"})
	}
	return nil
}
