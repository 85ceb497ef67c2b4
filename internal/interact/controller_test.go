package interact

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/viewport"
)

type recorder struct {
	nodeSaves int
	connSaves int
	nodes     []graph.Node
	err       error
}

func (r *recorder) SaveNodes(n []graph.Node) error {
	r.nodeSaves++
	r.nodes = n
	return r.err
}

func (r *recorder) SaveConnections([]graph.Connection) error {
	r.connSaves++
	return r.err
}

type countingCapture struct{ acquired, released int }

func (c *countingCapture) Acquire() { c.acquired++ }
func (c *countingCapture) Release() { c.released++ }

type fixture struct {
	ctrl    *Controller
	g       *graph.Graph
	vp      *viewport.Viewport
	rec     *recorder
	capture *countingCapture
	opened  []string
	edited  []string
	errs    []error
}

func newFixture(t *testing.T, editable bool, nodes ...graph.Node) *fixture {
	t.Helper()
	f := &fixture{rec: &recorder{}, capture: &countingCapture{}}
	f.g = graph.New(f.rec, nodes, nil)
	f.vp = viewport.New(viewport.DefaultLimits())
	f.ctrl = New(f.g, f.vp, Options{
		Logger:        zerolog.Nop(),
		Capture:       f.capture,
		Editable:      editable,
		OnOpenProject: func(id string) { f.opened = append(f.opened, id) },
		OnEdit:        func(n graph.Node) { f.edited = append(f.edited, n.ID) },
		OnError:       func(err error) { f.errs = append(f.errs, err) },
	})
	return f
}

func (f *fixture) send(t *testing.T, events ...Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, f.ctrl.Handle(ev))
	}
}

func (f *fixture) node(t *testing.T, id string) graph.Node {
	t.Helper()
	n, ok := f.g.Nodes.Get(id)
	require.True(t, ok, "node %s", id)
	return n
}

var background = Target{Kind: TargetBackground}

func onNode(id string) Target {
	return Target{Kind: TargetNode, NodeID: id}
}

func onPin(id, pin string) Target {
	return Target{Kind: TargetPin, NodeID: id, Pin: pin}
}

func down(x, y float64, t Target) Event {
	return Event{Type: PointerDown, X: x, Y: y, Target: t}
}

func move(x, y float64) Event {
	return Event{Type: PointerMove, X: x, Y: y}
}

func up(x, y float64, t Target) Event {
	return Event{Type: PointerUp, X: x, Y: y, Target: t}
}

func fn(id string, x, y float64) graph.Node {
	return graph.Node{ID: id, Type: graph.TypeFunction, Title: id, X: x, Y: y}
}

func TestPan_ScalesByZoom(t *testing.T) {
	f := newFixture(t, true)
	f.vp.Zoom = 2

	f.send(t, down(100, 100, background))
	assert.Equal(t, Panning, f.ctrl.State().Mode)

	f.send(t, move(120, 100), move(140, 120), up(140, 120, background))
	assert.InDelta(t, 20, f.vp.PanX, 1e-9)
	assert.InDelta(t, 10, f.vp.PanY, 1e-9)
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	assert.Equal(t, 1, f.capture.acquired)
	assert.Equal(t, 1, f.capture.released)
}

func TestPan_SecondaryButtonIgnored(t *testing.T) {
	f := newFixture(t, true)
	f.send(t, Event{Type: PointerDown, X: 10, Y: 10, Button: ButtonSecondary, Target: background})
	assert.Equal(t, Idle, f.ctrl.State().Mode)

	f.send(t, Event{Type: PointerDown, X: 10, Y: 10, Button: ButtonMiddle, Target: background})
	assert.Equal(t, Panning, f.ctrl.State().Mode)
}

func TestPan_MiddleButtonOnNodePans(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.send(t, Event{Type: PointerDown, X: 50, Y: 10, Button: ButtonMiddle, Target: onNode("a")})
	require.Equal(t, Panning, f.ctrl.State().Mode)

	f.send(t, move(70, 20), up(70, 20, Target{}))
	n := f.node(t, "a")
	assert.Zero(t, n.X)
	assert.Zero(t, n.Y)
	assert.InDelta(t, 20, f.vp.PanX, 1e-9)
	assert.InDelta(t, 10, f.vp.PanY, 1e-9)
	assert.Zero(t, f.rec.nodeSaves)
}

func TestPan_ClearsSelection(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.ctrl.Select("a")
	f.send(t, down(900, 900, background), up(900, 900, background))
	assert.Empty(t, f.ctrl.Selected())
}

func TestLeave_CancelsPan(t *testing.T) {
	f := newFixture(t, true)
	f.send(t, down(0, 0, background), move(10, 0), Event{Type: PointerLeave})
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	assert.Equal(t, 1, f.capture.released)

	f.send(t, move(50, 50))
	assert.InDelta(t, 10, f.vp.PanX, 1e-9, "moves after leave must not pan")
	assert.InDelta(t, 0, f.vp.PanY, 1e-9)
}

func TestDrag_MovesByWorldDeltaAndCommitsOnce(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.vp.Zoom = 2

	f.send(t, down(10, 10, onNode("a")))
	assert.Equal(t, State{Mode: DraggingNode, NodeID: "a"}, f.ctrl.State())
	assert.Equal(t, "a", f.ctrl.Selected())

	f.send(t, move(30, 10), move(50, 30))
	n := f.node(t, "a")
	assert.InDelta(t, 20, n.X, 1e-9)
	assert.InDelta(t, 10, n.Y, 1e-9)
	assert.Zero(t, f.rec.nodeSaves, "drag moves stay local")

	f.send(t, up(50, 30, onNode("a")))
	assert.Equal(t, 1, f.rec.nodeSaves)
	require.Len(t, f.rec.nodes, 1)
	assert.InDelta(t, 20, f.rec.nodes[0].X, 1e-9)
	assert.InDelta(t, 10, f.rec.nodes[0].Y, 1e-9)
}

func TestDrag_HitTestsWhenTargetEmpty(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.send(t, down(100, 100, Target{}), move(110, 105), up(110, 105, Target{}))

	n := f.node(t, "a")
	assert.InDelta(t, 10, n.X, 1e-9)
	assert.InDelta(t, 5, n.Y, 1e-9)
}

func TestDrag_LeaveCommits(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.send(t, down(10, 10, onNode("a")), move(40, 10), Event{Type: PointerLeave})
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	assert.Equal(t, 1, f.rec.nodeSaves)
	assert.InDelta(t, 30, f.rec.nodes[0].X, 1e-9)
}

func TestDrag_ReadOnlySelectsWithoutMoving(t *testing.T) {
	f := newFixture(t, false, fn("a", 0, 0))
	f.send(t, down(10, 10, onNode("a")), move(60, 60), up(60, 60, onNode("a")))

	assert.Equal(t, "a", f.ctrl.Selected())
	n := f.node(t, "a")
	assert.Zero(t, n.X)
	assert.Zero(t, n.Y)
	assert.Zero(t, f.rec.nodeSaves)
}

func TestPointerDown_IgnoredDuringGesture(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.send(t, down(10, 10, onNode("a")), down(500, 500, background))
	assert.Equal(t, DraggingNode, f.ctrl.State().Mode)
	assert.Equal(t, 1, f.capture.acquired)
}

func TestResize_FloorsAtMinimum(t *testing.T) {
	comment := graph.Node{ID: "c", Type: graph.TypeComment, Title: "note"}
	f := newFixture(t, true, comment)

	// Bottom-right corner of the default 300x200 comment.
	f.send(t, down(295, 195, Target{}))
	require.Equal(t, State{Mode: ResizingNode, NodeID: "c"}, f.ctrl.State())

	f.send(t, move(345, 45), up(345, 45, Target{}))
	n := f.node(t, "c")
	assert.InDelta(t, 350, n.Width, 1e-9)
	assert.InDelta(t, graph.MinNodeSize, n.Height, 1e-9)
	assert.Equal(t, 1, f.rec.nodeSaves)
}

func TestResize_ReadOnlyIgnored(t *testing.T) {
	f := newFixture(t, false, graph.Node{ID: "c", Type: graph.TypeComment})
	f.send(t, down(295, 195, Target{Kind: TargetResize, NodeID: "c"}), move(400, 400))
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	assert.Zero(t, f.node(t, "c").Width)
}

func TestResize_HandleOnFixedSizeNodeDrags(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))

	f.send(t, down(270, 120, Target{Kind: TargetResize, NodeID: "a"}))
	require.Equal(t, State{Mode: DraggingNode, NodeID: "a"}, f.ctrl.State())

	f.send(t, move(320, 170), up(320, 170, Target{}))
	n := f.node(t, "a")
	assert.Zero(t, n.Width, "function nodes keep their kind's size")
	assert.Zero(t, n.Height)
	assert.InDelta(t, 50, n.X, 1e-9)
	assert.InDelta(t, 50, n.Y, 1e-9)
}

func TestWiring_Connects(t *testing.T) {
	tests := []struct {
		name     string
		start    Target
		end      Target
		wantFrom string
		wantTo   string
		wantData bool
	}{
		{"out to in", onPin("a", graph.PinOutExec), onPin("b", graph.PinInExec), "a", "b", false},
		{"in to out is normalized", onPin("b", graph.PinInExec), onPin("a", graph.PinOutExec), "a", "b", false},
		{"data pins", onPin("a", graph.PinOutData), onPin("b", graph.PinInData), "a", "b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true, fn("a", 0, 0), fn("b", 400, 0))

			f.send(t, down(0, 0, tt.start))
			require.Equal(t, Wiring, f.ctrl.State().Mode)
			f.send(t, move(200, 80))
			_, pointer, ok := f.ctrl.PendingWire()
			require.True(t, ok)
			assert.Equal(t, geom.Pt(200, 80), pointer)

			f.send(t, up(420, 45, tt.end))
			assert.Equal(t, Idle, f.ctrl.State().Mode)
			conns := f.g.Connections.List()
			require.Len(t, conns, 1)
			assert.Equal(t, tt.wantFrom, conns[0].From)
			assert.Equal(t, tt.wantTo, conns[0].To)
			assert.Equal(t, tt.wantData, conns[0].IsData)
			assert.Equal(t, 1, f.rec.connSaves)
		})
	}
}

func TestWiring_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		start Target
		end   Target
	}{
		{"same node", onPin("a", graph.PinOutExec), onPin("a", graph.PinInExec)},
		{"both outputs", onPin("a", graph.PinOutExec), onPin("b", graph.PinOutExec)},
		{"both inputs", onPin("a", graph.PinInExec), onPin("b", graph.PinInData)},
		{"released on background", onPin("a", graph.PinOutExec), background},
		{"released on body", onPin("a", graph.PinOutExec), onNode("b")},
		{"unknown pin", onPin("a", graph.PinOutExec), onPin("b", "in_nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true, fn("a", 0, 0), fn("b", 400, 0))
			f.send(t, down(0, 0, tt.start), up(0, 0, tt.end))
			assert.Equal(t, Idle, f.ctrl.State().Mode)
			assert.Zero(t, f.g.Connections.Len())
			assert.Zero(t, f.rec.connSaves)
		})
	}
}

func TestWiring_SurvivesLeave(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0), fn("b", 400, 0))
	f.send(t, down(0, 0, onPin("a", graph.PinOutExec)), Event{Type: PointerLeave})
	assert.Equal(t, Wiring, f.ctrl.State().Mode)

	f.send(t, up(0, 0, onPin("b", graph.PinInExec)))
	assert.Equal(t, 1, f.g.Connections.Len())
}

func TestWiring_OriginAtPinAnchor(t *testing.T) {
	f := newFixture(t, true, fn("a", 10, 20))
	f.send(t, down(0, 0, onPin("a", graph.PinOutData)))
	origin, _, ok := f.ctrl.PendingWire()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(10+260, 20+68), origin)
}

func TestWiring_ReadOnlyIgnored(t *testing.T) {
	f := newFixture(t, false, fn("a", 0, 0), fn("b", 400, 0))
	f.send(t, down(0, 0, onPin("a", graph.PinOutExec)))
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	f.send(t, up(0, 0, onPin("b", graph.PinInExec)))
	assert.Zero(t, f.g.Connections.Len())
}

func TestWheel_ZoomKeepsCursorFixed(t *testing.T) {
	f := newFixture(t, false)
	cursor := geom.Pt(200, 100)
	before := f.vp.ScreenToWorld(cursor)

	f.send(t, Event{Type: Wheel, X: cursor.X, Y: cursor.Y, DeltaY: -100})
	assert.InDelta(t, 1.1, f.vp.Zoom, 1e-9)

	after := f.vp.ScreenToWorld(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestDrop(t *testing.T) {
	f := newFixture(t, true)
	f.vp.Zoom = 2
	f.vp.PanX = 10

	f.send(t, Event{Type: Drop, X: 100, Y: 40, Payload: json.RawMessage(`{"id":"proj1","title":"Elden Echoes","image":"/a.jpg"}`)})
	nodes := f.g.Nodes.List()
	require.Len(t, nodes, 1)
	n := nodes[0]
	assert.Equal(t, graph.TypeProject, n.Type)
	assert.Equal(t, "P_Elden Echoes", n.Title)
	assert.Equal(t, "proj1", n.ProjectID)
	assert.Equal(t, "/a.jpg", n.Image)
	assert.InDelta(t, 40, n.X, 1e-9)
	assert.InDelta(t, 20, n.Y, 1e-9)
	assert.Equal(t, 1, f.rec.nodeSaves)
}

func TestDrop_MalformedCreatesNothing(t *testing.T) {
	for _, payload := range []string{`{not json`, `{"title":"no id"}`, ``} {
		f := newFixture(t, true)
		f.send(t, Event{Type: Drop, X: 1, Y: 1, Payload: json.RawMessage(payload)})
		assert.Zero(t, f.g.Nodes.Len(), "payload %q", payload)
		assert.Zero(t, f.rec.nodeSaves)
		assert.Empty(t, f.errs)
	}
}

func TestDrop_ReadOnlyIgnored(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, Event{Type: Drop, Payload: json.RawMessage(`{"id":"proj1","title":"x"}`)})
	assert.Zero(t, f.g.Nodes.Len())
}

func TestDoubleActivate(t *testing.T) {
	link := graph.Node{ID: "p", Type: graph.TypeProject, ProjectID: "proj1", X: 1000}

	t.Run("project opens in read-only mode", func(t *testing.T) {
		f := newFixture(t, false, link, fn("a", 0, 0))
		f.send(t, Event{Type: DoubleActivate, Target: onNode("p")})
		assert.Equal(t, []string{"proj1"}, f.opened)

		f.send(t, Event{Type: DoubleActivate, Target: onNode("a")})
		assert.Empty(t, f.edited)
	})

	t.Run("project opens in edit mode", func(t *testing.T) {
		f := newFixture(t, true, link, fn("a", 0, 0))
		f.send(t, Event{Type: DoubleActivate, Target: onNode("p")})
		assert.Equal(t, []string{"proj1"}, f.opened)
		assert.Empty(t, f.edited)
	})

	t.Run("regular node edits in edit mode", func(t *testing.T) {
		f := newFixture(t, true, link, fn("a", 0, 0))
		f.send(t, Event{Type: DoubleActivate, X: 100, Y: 100})
		assert.Equal(t, []string{"a"}, f.edited)
		assert.Empty(t, f.opened)
	})
}

func TestPress_ReadOnlyOpensProject(t *testing.T) {
	f := newFixture(t, false, graph.Node{ID: "p", Type: graph.TypeProject, ProjectID: "proj1"})
	f.send(t, down(10, 10, onNode("p")))
	assert.Equal(t, []string{"proj1"}, f.opened)
	assert.Equal(t, Idle, f.ctrl.State().Mode)
}

func TestBlocked_IgnoresInput(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.send(t, down(10, 10, onNode("a")))
	f.ctrl.SetBlocked(true)
	assert.Equal(t, Idle, f.ctrl.State().Mode, "blocking ends the gesture")
	assert.Equal(t, 1, f.capture.released)

	f.send(t, down(500, 500, background), Event{Type: Wheel, X: 1, Y: 1, DeltaY: -1})
	assert.Equal(t, Idle, f.ctrl.State().Mode)
	assert.Equal(t, 1.0, f.vp.Zoom)

	f.ctrl.SetBlocked(false)
	f.send(t, down(500, 500, background))
	assert.Equal(t, Panning, f.ctrl.State().Mode)
}

func TestTouch_SingleFingerPans(t *testing.T) {
	f := newFixture(t, false)
	f.send(t,
		Event{Type: TouchStart, Touches: []geom.Point{{X: 10, Y: 10}}, Target: background},
		Event{Type: TouchMove, Touches: []geom.Point{{X: 30, Y: 25}}},
	)
	assert.Equal(t, Panning, f.ctrl.State().Mode)
	assert.InDelta(t, 20, f.vp.PanX, 1e-9)
	assert.InDelta(t, 15, f.vp.PanY, 1e-9)

	f.send(t, Event{Type: TouchEnd})
	assert.Equal(t, Idle, f.ctrl.State().Mode)
}

func TestTouch_MultiTouchIgnored(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, Event{Type: TouchStart, Touches: []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 50}}, Target: background})
	assert.Equal(t, Idle, f.ctrl.State().Mode)
}

func TestSpawn(t *testing.T) {
	f := newFixture(t, true)
	f.ctrl.SetViewSize(800, 600)
	f.vp.PanX, f.vp.PanY = 100, 50

	n, err := f.ctrl.Spawn(graph.TypeComment)
	require.NoError(t, err)
	assert.InDelta(t, 160, n.X, 1e-9)
	assert.InDelta(t, 200, n.Y, 1e-9)
	assert.Equal(t, 400.0, n.Width)
	assert.Equal(t, 300.0, n.Height)

	seq, err := f.ctrl.Spawn(graph.TypeSequence)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.SequencePins)
	assert.Equal(t, 2, f.g.Nodes.Len())

	_, err = f.ctrl.Spawn("bogus")
	assert.ErrorIs(t, err, graph.ErrUnknownType)

	f.ctrl.SetEditable(false)
	_, err = f.ctrl.Spawn(graph.TypeFunction)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestDelete_Cascades(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0), fn("b", 400, 0))
	f.send(t, down(0, 0, onPin("a", graph.PinOutExec)), up(0, 0, onPin("b", graph.PinInExec)))
	require.Equal(t, 1, f.g.Connections.Len())
	f.ctrl.Select("a")

	require.NoError(t, f.ctrl.Delete("a"))
	assert.Equal(t, 1, f.g.Nodes.Len())
	assert.Zero(t, f.g.Connections.Len())
	assert.Empty(t, f.ctrl.Selected())

	f.ctrl.SetEditable(false)
	assert.ErrorIs(t, f.ctrl.Delete("b"), ErrReadOnly)
	assert.Equal(t, 1, f.g.Nodes.Len())
}

func TestCommitFailureReported(t *testing.T) {
	f := newFixture(t, true, fn("a", 0, 0))
	f.rec.err = errors.New("disk full")
	f.send(t, down(0, 0, onNode("a")), move(10, 0), up(10, 0, onNode("a")))
	require.Len(t, f.errs, 1)
	assert.ErrorContains(t, f.errs[0], "saving nodes")
}

func TestHandle_InvalidEvent(t *testing.T) {
	f := newFixture(t, true)
	assert.ErrorIs(t, f.ctrl.Handle(Event{Type: "scroll"}), ErrInvalidEvent)
}

func TestHitTest(t *testing.T) {
	nodes := []graph.Node{
		fn("a", 0, 0),
		{ID: "b", Type: graph.TypeComment, X: 200, Y: 100},
	}
	tests := []struct {
		name string
		at   geom.Point
		want Target
	}{
		{"input pin", geom.Pt(20, 45), Target{Kind: TargetPin, NodeID: "a", Pin: graph.PinInExec, Direction: graph.In}},
		{"near output pin", geom.Pt(264, 50), Target{Kind: TargetPin, NodeID: "a", Pin: graph.PinOutExec, Direction: graph.Out}},
		{"topmost body wins", geom.Pt(250, 120), onNode("b")},
		{"resize handle", geom.Pt(495, 295), Target{Kind: TargetResize, NodeID: "b"}},
		{"body", geom.Pt(100, 100), onNode("a")},
		{"empty canvas", geom.Pt(1000, 1000), background},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(nodes, tt.at))
		})
	}
}
