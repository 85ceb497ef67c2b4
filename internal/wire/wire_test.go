package wire

import (
	"testing"
	"time"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identity struct{}

func (identity) WorldToScreen(p geom.Point) geom.Point { return p }

func TestNewCurve_ControlOffsets(t *testing.T) {
	tests := []struct {
		name       string
		start, end geom.Point
		wantOffset float64
	}{
		{"short wire uses minimum", geom.Pt(0, 0), geom.Pt(60, 200), 80},
		{"long wire uses half distance", geom.Pt(0, 0), geom.Pt(500, -30), 250},
		{"backwards wire", geom.Pt(400, 10), geom.Pt(0, 10), 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCurve(tt.start, tt.end)
			assert.Equal(t, tt.start.X+tt.wantOffset, c.C1.X)
			assert.Equal(t, tt.end.X-tt.wantOffset, c.C2.X)
			// Control points share their endpoint's Y: horizontal tangents.
			assert.Equal(t, tt.start.Y, c.C1.Y)
			assert.Equal(t, tt.end.Y, c.C2.Y)
			assert.Equal(t, tt.start, c.At(0))
			assert.Equal(t, tt.end, c.At(1))
		})
	}
}

func TestCurveSVG(t *testing.T) {
	c := NewCurve(geom.Pt(0, 0), geom.Pt(100, 50))
	assert.Equal(t, "M 0 0 C 80 0, 20 50, 100 50", c.SVG())
}

func TestSequencePinOffsets(t *testing.T) {
	n := &graph.Node{ID: "seq", Type: graph.TypeSequence, SequencePins: 3, X: 10, Y: 20}

	var ys []float64
	for _, p := range graph.KindOf(n).Outputs(n) {
		ys = append(ys, OutputAnchor(n, p.Name).Y)
	}
	require.Len(t, ys, 3)
	for i := 1; i < len(ys); i++ {
		assert.Equal(t, float64(SequencePinStep), ys[i]-ys[i-1])
	}
	assert.Equal(t, 20.0+ExecPinOffsetY, ys[0])
}

func TestOutputAnchor_ByKind(t *testing.T) {
	tests := []struct {
		node  graph.Node
		pin   string
		wantX float64
		wantY float64
	}{
		{graph.Node{Type: graph.TypeFunction}, graph.PinOutExec, 260, 45},
		{graph.Node{Type: graph.TypeFunction}, graph.PinOutData, 260, 68},
		{graph.Node{Type: graph.TypeVariableGet}, graph.PinOutData, 160, 50},
		{graph.Node{Type: graph.TypeVariableSet}, graph.PinOutData, 200, 68},
		{graph.Node{Type: graph.TypeSequence}, "out_then_1", 140, 71},
		{graph.Node{Type: graph.TypeProject}, graph.PinOutData, 260, 49},
		{graph.Node{Type: graph.TypeTick}, graph.PinOutDelta, 260, 68},
	}
	for _, tt := range tests {
		got := OutputAnchor(&tt.node, tt.pin)
		assert.Equal(t, geom.Pt(tt.wantX, tt.wantY), got, "%s.%s", tt.node.Type, tt.pin)
	}
}

func TestInputAnchor(t *testing.T) {
	n := &graph.Node{Type: graph.TypeVariableSet, X: 100, Y: 100}
	assert.Equal(t, geom.Pt(120, 145), InputAnchor(n, graph.PinInExec))
	assert.Equal(t, geom.Pt(120, 168), InputAnchor(n, graph.PinInData))
}

func TestLayout_SkipsDangling(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Type: graph.TypeEvent},
		{ID: "b", Type: graph.TypeFunction, X: 400},
	}
	conns := []graph.Connection{
		{ID: "ok", From: "a", FromPin: graph.PinOutExec, To: "b", ToPin: graph.PinInExec},
		{ID: "gone", From: "a", FromPin: graph.PinOutExec, To: "deleted", ToPin: graph.PinInExec},
	}
	segs := Layout(nodes, conns, identity{}, Options{})
	require.Len(t, segs, 1)
	assert.Equal(t, "ok", segs[0].ConnectionID)
	assert.Equal(t, geom.Pt(260, 45), segs[0].Curve.P0)
	assert.Equal(t, geom.Pt(420, 45), segs[0].Curve.P3)
}

func TestLayout_AppliesViewport(t *testing.T) {
	vp := viewport.New(viewport.DefaultLimits())
	vp.State = viewport.State{PanX: 10, PanY: 5, Zoom: 2}
	nodes := []graph.Node{{ID: "a", Type: graph.TypeEvent}, {ID: "b", Type: graph.TypeFunction, X: 400}}
	conns := []graph.Connection{{ID: "c", From: "a", FromPin: graph.PinOutExec, To: "b", ToPin: graph.PinInExec}}

	segs := Layout(nodes, conns, vp, Options{})
	require.Len(t, segs, 1)
	assert.Equal(t, geom.Pt((260+10)*2, (45+5)*2), segs[0].Curve.P0)
}

func TestLayout_Variants(t *testing.T) {
	nodes := []graph.Node{
		{ID: "tick", Type: graph.TypeTick},
		{ID: "fn", Type: graph.TypeFunction, X: 400},
		{ID: "proj", Type: graph.TypeProject, X: 800},
	}
	conns := []graph.Connection{
		{ID: "exec", From: "tick", FromPin: graph.PinOutExec, To: "fn", ToPin: graph.PinInExec},
		{ID: "delta", From: "tick", FromPin: graph.PinOutDelta, To: "fn", ToPin: graph.PinInData, IsData: true},
		{ID: "proj", From: "proj", FromPin: graph.PinOutData, To: "fn", ToPin: graph.PinInData, IsData: true},
	}

	segs := Layout(nodes, conns, identity{}, Options{Active: map[string]bool{"tick": true}})
	require.Len(t, segs, 3)
	assert.True(t, segs[0].Variant.Live)
	assert.Equal(t, 1200*time.Millisecond, segs[0].Stroke.Marker)
	assert.Empty(t, segs[0].Stroke.Dash)
	assert.Equal(t, "8, 8", segs[1].Stroke.Dash, "live data wires are dashed")
	assert.Equal(t, 2*time.Second, segs[1].Stroke.Marker)
	assert.False(t, segs[2].Variant.Live)
	assert.True(t, segs[2].Variant.Project)

	debug := Layout(nodes, conns, identity{}, Options{Selected: "tick"})
	assert.True(t, debug[0].Variant.Debug)
	assert.Equal(t, colorDebug, debug[0].Stroke.Color)

	editing := Layout(nodes, conns, identity{}, Options{Selected: "tick", EditMode: true})
	assert.False(t, editing[0].Variant.Debug, "debug wires are hidden in edit mode")
}

func TestStrokeFor_Base(t *testing.T) {
	assert.Equal(t, Stroke{Color: colorExec, Width: 2, Opacity: 0.4}, StrokeFor(Variant{}))
	assert.Equal(t, Stroke{Color: colorData, Width: 2, Opacity: 0.6}, StrokeFor(Variant{Data: true}))
	assert.Equal(t, colorProject, StrokeFor(Variant{Project: true}).Color)
}

func TestPending(t *testing.T) {
	seg := Pending(geom.Pt(0, 0), geom.Pt(50, 50), identity{})
	assert.True(t, seg.Variant.Live)
	assert.Equal(t, geom.Pt(50, 50), seg.Curve.P3)
}
