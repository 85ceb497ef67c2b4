package interact

import (
	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/wire"
)

// Hit-test tolerances in world units.
const (
	PinHitRadius     = 8
	ResizeHandleSize = 16
)

// HitTest finds what lies under a world point. Later nodes are drawn on top,
// so they are tested first. Pins win over the resize handle, which wins over
// the node body.
func HitTest(nodes []graph.Node, p geom.Point) Target {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := &nodes[i]
		if t, ok := hitNode(n, p); ok {
			return t
		}
	}
	return Target{Kind: TargetBackground}
}

func hitNode(n *graph.Node, p geom.Point) (Target, bool) {
	for _, pin := range graph.AllPins(n) {
		if wire.Anchor(n, pin.Name, pin.Direction).Dist(p) <= PinHitRadius {
			return Target{Kind: TargetPin, NodeID: n.ID, Pin: pin.Name, Direction: pin.Direction}, true
		}
	}

	w, h := graph.Size(n)
	body := geom.Rect{X: n.X, Y: n.Y, W: w, H: h}
	if !body.Contains(p) {
		return Target{}, false
	}
	if graph.KindOf(n).Resizable() {
		corner := body.Max()
		if p.X >= corner.X-ResizeHandleSize && p.Y >= corner.Y-ResizeHandleSize {
			return Target{Kind: TargetResize, NodeID: n.ID}, true
		}
	}
	return Target{Kind: TargetNode, NodeID: n.ID}, true
}
