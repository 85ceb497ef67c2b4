package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Show which nodes execution reaches from the entry events",
	Long: `Run the reachability simulation: every event node is active, and activity
flows along connections until nothing changes or the pass cap is reached.

The cap is canvas.sim_max_passes in the global config (default 100).`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

// SimulateResult is the response for the simulate command.
type SimulateResult struct {
	Graph    string   `json:"graph"`
	Active   []string `json:"active"`
	Inactive []string `json:"inactive"`
	Passes   int      `json:"passes"`
	Capped   bool     `json:"capped"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	sim := a.sess.Simulator()
	sim.SetSimulating(true)
	r := sim.Result(a.sess.Graph())

	res := SimulateResult{
		Graph:    a.sess.GraphID(),
		Active:   r.Active.IDs(),
		Inactive: []string{},
		Passes:   r.Passes,
		Capped:   r.Capped,
	}
	for _, n := range a.sess.Graph().Nodes.List() {
		if !r.Active[n.ID] {
			res.Inactive = append(res.Inactive, n.ID)
		}
	}

	if humanOutput {
		fmt.Printf("%s: %d active, %d inactive after %d pass(es)\n", res.Graph, len(res.Active), len(res.Inactive), res.Passes)
		if res.Capped {
			warnHuman("pass cap reached; result may be incomplete")
		}
		for _, id := range res.Active {
			fmt.Printf("  %s %s\n", statusIcon(true), id)
		}
		for _, id := range res.Inactive {
			fmt.Printf("  %s %s\n", styleSubtle.Sprint("·"), styleSubtle.Sprint(id))
		}
	} else {
		outputJSON(res)
	}
	return nil
}
