package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/interact"
	"github.com/matsen/blueprint/internal/replay"
)

var (
	replayRate   float64
	replayStrict bool
)

func init() {
	replayCmd.Flags().Float64Var(&replayRate, "rate", 0, "Events per second (default: as fast as possible)")
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "Stop at the first invalid event instead of skipping it")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.jsonl>",
	Short: "Feed recorded canvas input events to the graph",
	Long: `Replay a script of canvas input events, one JSON object per line:

  {"type":"pointerdown","x":120,"y":80,"target":{"kind":"node","nodeId":"node2"}}
  {"type":"pointermove","x":220,"y":90}
  {"type":"pointerup","x":220,"y":90}
  {"type":"wheel","x":400,"y":300,"deltaY":-100}

Events without a target are hit-tested against the graph. Edits made by the
script are saved only when --edit is given; otherwise gestures that would
edit are ignored, exactly as in a read-only canvas. Once a project-link
node opens its project, the rest of the script is ignored, as it would be
behind the open project panel.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

// ReplayResult is the response for the replay command.
type ReplayResult struct {
	Graph    string         `json:"graph"`
	Events   int            `json:"events"`
	Skipped  int            `json:"skipped"`
	State    interact.State `json:"state"`
	Selected string         `json:"selected,omitempty"`
	PanX     float64        `json:"pan_x"`
	PanY     float64        `json:"pan_y"`
	Zoom     float64        `json:"zoom"`
	Opened   []string       `json:"opened,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []replay.Option{replay.WithRate(replayRate), replay.WithLogger(a.log)}
	if replayStrict {
		opts = append(opts, replay.Strict())
	}
	st, err := replay.NewPlayer(a.sess, opts...).PlayFile(ctx, args[0])
	if err != nil {
		a.exit(ExitDataError, "replaying %s: %v", args[0], err)
	}
	// A gesture still open at the end of the script is finished so drags
	// are saved.
	a.sess.Controller().Reset()

	vp := a.sess.Viewport()
	res := ReplayResult{
		Graph:    a.sess.GraphID(),
		Events:   st.Events,
		Skipped:  st.Skipped,
		State:    a.sess.Controller().State(),
		Selected: a.sess.Controller().Selected(),
		PanX:     vp.PanX,
		PanY:     vp.PanY,
		Zoom:     vp.Zoom,
	}
	for _, p := range a.opened {
		res.Opened = append(res.Opened, p.ID)
	}
	if err := a.sess.LastError(); err != nil {
		res.Error = err.Error()
	}

	if humanOutput {
		fmt.Printf("%s replayed %d event(s) on %s", statusIcon(res.Error == ""), res.Events, res.Graph)
		if res.Skipped > 0 {
			fmt.Printf(", skipped %d", res.Skipped)
		}
		fmt.Println()
		fmt.Printf("  view: pan %g,%g zoom %g\n", res.PanX, res.PanY, res.Zoom)
		for _, id := range res.Opened {
			fmt.Printf("  opened project %s\n", id)
		}
		if res.Error != "" {
			fmt.Printf("  %s %s\n", styleBad.Sprint("save failed:"), res.Error)
		}
	} else {
		outputJSON(res)
	}

	if res.Error != "" {
		a.Close()
		os.Exit(ExitDataError)
	}
	return nil
}
