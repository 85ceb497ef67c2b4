package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/interact"
	"github.com/matsen/blueprint/internal/project"
)

var (
	dropX float64
	dropY float64
)

func init() {
	dropCmd.Flags().Float64Var(&dropX, "x", 0, "Screen X of the drop")
	dropCmd.Flags().Float64Var(&dropY, "y", 0, "Screen Y of the drop")
	rootCmd.AddCommand(dropCmd)
}

var dropCmd = &cobra.Command{
	Use:   "drop <payload.json | project-id | ->",
	Short: "Drop a project summary onto the canvas (requires --edit)",
	Long: `Drop a project summary onto the canvas, creating a project-link node at
the drop point, exactly as dragging a project card onto the canvas does.

The argument is a JSON file, "-" for stdin, or the id of a catalog project.`,
	Args: cobra.ExactArgs(1),
	RunE: runDrop,
}

func runDrop(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	payload, err := readDropPayload(a, args[0])
	if err != nil {
		a.exit(ExitDataError, "%v", err)
	}
	// Validate up front; the canvas itself drops malformed payloads silently.
	if _, err := project.ParsePayload(payload); err != nil {
		a.exit(ExitDataError, "%v", err)
	}

	before := a.sess.Graph().Nodes.Len()
	if err := a.sess.Handle(interact.Event{Type: interact.Drop, X: dropX, Y: dropY, Payload: payload}); err != nil {
		a.exit(ExitError, "%v", err)
	}
	nodes := a.sess.Graph().Nodes.List()
	if len(nodes) == before {
		a.exit(ExitDataError, "drop created no node")
	}
	if err := a.sess.LastError(); err != nil {
		a.exit(ExitDataError, "saving graph: %v", err)
	}

	a.printNode("dropped", nodes[len(nodes)-1])
	return nil
}

// readDropPayload resolves the drop argument to raw JSON.
func readDropPayload(a *app, arg string) (json.RawMessage, error) {
	switch {
	case arg == "-":
		var raw json.RawMessage
		if err := json.NewDecoder(os.Stdin).Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading payload from stdin: %w", err)
		}
		return raw, nil
	case project.ValidateID(arg) == nil:
		if _, err := os.Stat(arg); err != nil {
			p, err := a.repo.Project(arg)
			if err != nil {
				return nil, err
			}
			return json.Marshal(p)
		}
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return data, nil
}
