package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/graph"
)

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect <node.pin> <node.pin>",
	Short: "Wire two pins together (requires --edit)",
	Long: `Wire two pins together. Either end may be the output; the connection is
always stored output to input.

Examples:
  bpg --edit connect node1.out_exec node2.in_exec
  bpg --edit connect seq.out_then_2 node4.in_exec`,
	Args: cobra.ExactArgs(2),
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <connection-id>",
	Short: "Remove a connection (requires --edit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisconnect,
}

// ConnectResult is the response for the connect command.
type ConnectResult struct {
	Status     string           `json:"status"`
	Connection graph.Connection `json:"connection"`
}

// parsePinRef splits "node.pin" at the last dot.
func parsePinRef(s string) (graph.PinRef, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return graph.PinRef{}, fmt.Errorf("invalid pin %q (want node.pin)", s)
	}
	return graph.PinRef{NodeID: s[:i], Pin: s[i+1:]}, nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	a, err := parsePinRef(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	b, err := parsePinRef(args[1])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	app := mustOpenApp()
	defer app.Close()
	app.mustEditable()

	c, ok, err := app.sess.Connect(a, b)
	if err != nil {
		app.exitForEditError(err, "connecting")
	}
	if !ok {
		app.exit(ExitDataError, "cannot connect %s to %s: pins must be on different nodes and face opposite directions", args[0], args[1])
	}

	if humanOutput {
		fmt.Printf("Connected %s.%s -> %s.%s (%s)\n", c.From, c.FromPin, c.To, c.ToPin, c.ID)
	} else {
		outputJSON(ConnectResult{Status: "connected", Connection: c})
	}
	return nil
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	removed, err := a.sess.Disconnect(args[0])
	if err != nil {
		a.exit(ExitDataError, "disconnecting: %v", err)
	}
	if !removed {
		a.exit(ExitNotFound, "connection %q not found in %s", args[0], a.sess.GraphID())
	}

	if humanOutput {
		fmt.Printf("Removed connection %s\n", args[0])
	} else {
		outputJSON(StatusResponse{Status: "removed"})
	}
	return nil
}
