package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/graph"
)

func init() {
	rootCmd.AddCommand(nodeCmd)

	addNodeFieldFlags(nodeAddCmd)
	nodeAddCmd.Flags().Float64("x", 0, "World X (default: centre of the view)")
	nodeAddCmd.Flags().Float64("y", 0, "World Y (default: centre of the view)")
	nodeCmd.AddCommand(nodeAddCmd)

	nodeCmd.AddCommand(nodeRmCmd)

	addNodeFieldFlags(nodeSetCmd)
	nodeSetCmd.Flags().Float64("width", 0, "Width (comments)")
	nodeSetCmd.Flags().Float64("height", 0, "Height (comments)")
	nodeCmd.AddCommand(nodeSetCmd)

	nodeCmd.AddCommand(nodeMoveCmd)
	nodeCmd.AddCommand(nodeAddPinCmd)
	nodeCmd.AddCommand(nodeTypesCmd)
}

func addNodeFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Title")
	cmd.Flags().StringP("subtitle", "s", "", "Subtitle")
	cmd.Flags().StringP("description", "d", "", "Description")
	cmd.Flags().String("details", "", "Details (newline separated)")
	cmd.Flags().Int("year", 0, "Year shown on timeline nodes")
	cmd.Flags().String("project", "", "Project id (project-link nodes)")
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Edit nodes (requires --edit)",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a node from its type template",
	Long: `Add a node of the given type, filled in from the type's template.

Types: beginplay, event, tick, comment, sequence, project, function,
variable (variable-get), variable_set (variable-set).

Without --x/--y the node is placed at the centre of the view, as the
canvas palette does.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodeAdd,
}

var nodeRmCmd = &cobra.Command{
	Use:   "rm <node-id>",
	Short: "Remove a node and every connection touching it",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeRm,
}

var nodeSetCmd = &cobra.Command{
	Use:   "set <node-id>",
	Short: "Change node fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeSet,
}

var nodeMoveCmd = &cobra.Command{
	Use:   "move <node-id> <x> <y>",
	Short: "Move a node to a world position",
	Args:  cobra.ExactArgs(3),
	RunE:  runNodeMove,
}

var nodeAddPinCmd = &cobra.Command{
	Use:   "add-pin <node-id>",
	Short: "Add a Then output to a sequence node",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeAddPin,
}

var nodeTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List node types with their pins",
	Args:  cobra.NoArgs,
	RunE:  runNodeTypes,
}

// NodeResult is the response for node commands that return a node.
type NodeResult struct {
	Status string     `json:"status"`
	Node   graph.Node `json:"node"`
}

// NodeTypeInfo describes one node type for node types.
type NodeTypeInfo struct {
	Type    graph.Type `json:"type"`
	Color   string     `json:"color"`
	Entry   bool       `json:"entry"`
	Inputs  []string   `json:"inputs"`
	Outputs []string   `json:"outputs"`
}

// applyFieldFlags copies the changed field flags onto n.
func applyFieldFlags(cmd *cobra.Command, n *graph.Node) {
	f := cmd.Flags()
	if f.Changed("title") {
		n.Title, _ = f.GetString("title")
	}
	if f.Changed("subtitle") {
		n.Subtitle, _ = f.GetString("subtitle")
	}
	if f.Changed("description") {
		n.Description, _ = f.GetString("description")
	}
	if f.Changed("details") {
		n.Details, _ = f.GetString("details")
	}
	if f.Changed("year") {
		n.Year, _ = f.GetInt("year")
	}
	if f.Changed("project") {
		n.ProjectID, _ = f.GetString("project")
	}
	if f.Changed("width") {
		n.Width, _ = f.GetFloat64("width")
	}
	if f.Changed("height") {
		n.Height, _ = f.GetFloat64("height")
	}
}

func (a *app) mustNode(id string) graph.Node {
	n, ok := a.sess.Graph().Nodes.Get(id)
	if !ok {
		a.exit(ExitNotFound, "node %q not found in %s", id, a.sess.GraphID())
	}
	return n
}

// exitForEditError maps a node or connection edit failure to an exit code.
func (a *app) exitForEditError(err error, format string, args ...any) {
	code := ExitDataError
	if errors.Is(err, graph.ErrNodeNotFound) {
		code = ExitNotFound
	}
	a.exit(code, format+": %v", append(args, err)...)
}

func (a *app) printNode(status string, n graph.Node) {
	if humanOutput {
		fmt.Printf("%s %s (%s) at %g,%g\n", status, styleTitle.Sprint(n.ID), n.Type, n.X, n.Y)
	} else {
		outputJSON(NodeResult{Status: status, Node: n})
	}
}

func runNodeAdd(cmd *cobra.Command, args []string) error {
	t, err := graph.ParseType(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	n, err := a.sess.Spawn(t)
	if err != nil {
		a.exitForEditError(err, "adding node")
	}
	f := cmd.Flags()
	if f.Changed("x") || f.Changed("y") {
		if f.Changed("x") {
			n.X, _ = f.GetFloat64("x")
		}
		if f.Changed("y") {
			n.Y, _ = f.GetFloat64("y")
		}
		if err := a.sess.MoveNode(n.ID, n.X, n.Y); err != nil {
			a.exitForEditError(err, "placing node")
		}
	}
	if err := a.sess.UpdateNode(n.ID, func(n *graph.Node) { applyFieldFlags(cmd, n) }); err != nil {
		a.exitForEditError(err, "setting node fields")
	}

	a.printNode("added", a.mustNode(n.ID))
	return nil
}

func runNodeRm(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	n := a.mustNode(args[0])
	before := a.sess.Graph().Connections.Len()
	if err := a.sess.Delete(n.ID); err != nil {
		a.exitForEditError(err, "removing node")
	}
	removed := before - a.sess.Graph().Connections.Len()

	if humanOutput {
		fmt.Printf("Removed %s and %d connection(s)\n", n.ID, removed)
	} else {
		outputJSON(map[string]any{"status": "removed", "id": n.ID, "connections_removed": removed})
	}
	return nil
}

func runNodeSet(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	id := a.mustNode(args[0]).ID
	if err := a.sess.UpdateNode(id, func(n *graph.Node) { applyFieldFlags(cmd, n) }); err != nil {
		a.exitForEditError(err, "updating node")
	}
	a.printNode("updated", a.mustNode(id))
	return nil
}

func runNodeMove(cmd *cobra.Command, args []string) error {
	x, errX := strconv.ParseFloat(args[1], 64)
	y, errY := strconv.ParseFloat(args[2], 64)
	if errX != nil || errY != nil {
		exitWithError(ExitError, "x and y must be numbers")
	}

	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	id := a.mustNode(args[0]).ID
	if err := a.sess.MoveNode(id, x, y); err != nil {
		a.exitForEditError(err, "moving node")
	}
	a.printNode("moved", a.mustNode(id))
	return nil
}

func runNodeAddPin(cmd *cobra.Command, args []string) error {
	a := mustOpenApp()
	defer a.Close()
	a.mustEditable()

	id := a.mustNode(args[0]).ID
	if err := a.sess.AddSequencePin(id); err != nil {
		a.exitForEditError(err, "adding pin")
	}
	a.printNode("updated", a.mustNode(id))
	return nil
}

func runNodeTypes(cmd *cobra.Command, args []string) error {
	infos := make([]NodeTypeInfo, 0, len(graph.Types))
	for _, t := range graph.Types {
		k, _ := graph.KindFor(t)
		n := graph.Node{Type: t, SequencePins: k.Template().SequencePins}
		info := NodeTypeInfo{Type: t, Color: k.HeaderColor(), Entry: k.IsEntry(), Inputs: []string{}, Outputs: []string{}}
		for _, p := range k.Inputs(&n) {
			info.Inputs = append(info.Inputs, p.Name)
		}
		for _, p := range k.Outputs(&n) {
			info.Outputs = append(info.Outputs, p.Name)
		}
		infos = append(infos, info)
	}

	if humanOutput {
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{string(info.Type), fmt.Sprint(info.Inputs), fmt.Sprint(info.Outputs)})
		}
		printTable([]string{"TYPE", "INPUTS", "OUTPUTS"}, rows)
	} else {
		outputJSON(infos)
	}
	return nil
}
