package wire

import (
	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
)

// Pin anchor offsets in world units, measured from the node's top-left.
const (
	ExecPinOffsetY    = 45
	DataPinOffsetY    = 68
	GetDataPinOffsetY = 50 // variable-get nodes have no exec row
	ProjectPinOffsetY = 49
	SequencePinStep   = 26
	PinInset          = 20
)

// OutputAnchor returns the world position of an output pin's visual centre.
func OutputAnchor(n *graph.Node, pin string) geom.Point {
	k := graph.KindOf(n)
	x := n.X + k.AnchorWidth() - PinInset
	return geom.Pt(x, n.Y+outputOffsetY(n, k, pin))
}

func outputOffsetY(n *graph.Node, k graph.Kind, pin string) float64 {
	if n.Type == graph.TypeProject {
		return ProjectPinOffsetY
	}
	if graph.IsDataPinName(pin) {
		if k.Type() == graph.TypeVariableGet {
			return GetDataPinOffsetY
		}
		return DataPinOffsetY
	}
	if i, ok := graph.ThenIndex(pin); ok {
		return ExecPinOffsetY + float64(i)*SequencePinStep
	}
	return ExecPinOffsetY
}

// InputAnchor returns the world position of an input pin's visual centre.
func InputAnchor(n *graph.Node, pin string) geom.Point {
	y := float64(ExecPinOffsetY)
	if graph.IsDataPinName(pin) {
		y = DataPinOffsetY
	}
	return geom.Pt(n.X+PinInset, n.Y+y)
}

// Anchor dispatches on direction.
func Anchor(n *graph.Node, pin string, dir graph.Direction) geom.Point {
	if dir == graph.Out {
		return OutputAnchor(n, pin)
	}
	return InputAnchor(n, pin)
}
