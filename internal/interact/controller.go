// Package interact is the canvas state machine. It turns pointer, wheel,
// touch, and drop events into viewport changes and graph mutations.
//
// Exactly one gesture is active at a time:
//
//	Idle ─down(background)→ Panning      ─up/leave→ Idle
//	Idle ─down(middle)────→ Panning      ─up/leave→ Idle
//	Idle ─down(node)──────→ DraggingNode ─up/leave→ Idle (commit)
//	Idle ─down(handle)────→ ResizingNode ─up/leave→ Idle (commit)
//	Idle ─down(pin)───────→ Wiring       ─up──────→ Idle (connect if compatible)
//
// Only comment nodes have a resize handle. Drag and resize update the node
// store locally on every move and persist once when the gesture ends.
package interact

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/project"
	"github.com/matsen/blueprint/internal/viewport"
	"github.com/matsen/blueprint/internal/wire"
)

// Mode is the active gesture.
type Mode string

// Gesture modes.
const (
	Idle         Mode = "idle"
	Panning      Mode = "panning"
	DraggingNode Mode = "dragging"
	ResizingNode Mode = "resizing"
	Wiring       Mode = "wiring"
)

// State is the controller state. NodeID is set while dragging or resizing,
// Origin while wiring.
type State struct {
	Mode   Mode         `json:"mode"`
	NodeID string       `json:"nodeId,omitempty"`
	Origin graph.PinRef `json:"origin,omitzero"`
}

// Errors returned by the explicit editing operations.
var (
	ErrReadOnly     = errors.New("canvas is read-only")
	ErrInvalidEvent = errors.New("invalid input event")
)

// Offsets subtracted from the view centre when spawning a node, so the new
// node's header lands near the middle of the screen.
const (
	spawnOffsetX = 140
	spawnOffsetY = 50
)

// Capture is held for the duration of a gesture, e.g. global move/up
// listeners or a pointer capture on the host surface.
type Capture interface {
	Acquire()
	Release()
}

type nopCapture struct{}

func (nopCapture) Acquire() {}
func (nopCapture) Release() {}

// Options configures a Controller.
type Options struct {
	Logger   zerolog.Logger
	Capture  Capture
	Editable bool
	// OnOpenProject is called when a project-link node is activated.
	OnOpenProject func(projectID string)
	// OnEdit is called when a regular node is double-activated in edit mode.
	OnEdit func(n graph.Node)
	// OnError receives persistence failures from gesture commits.
	OnError func(err error)
}

// Controller consumes input events for one canvas. It is driven from a
// single event loop and is not safe for concurrent use.
type Controller struct {
	g       *graph.Graph
	vp      *viewport.Viewport
	log     zerolog.Logger
	capture Capture

	onOpen  func(string)
	onEdit  func(graph.Node)
	onError func(error)

	editable bool
	blocked  bool

	state    State
	last     geom.Point // screen position of the previous move
	touchPan bool

	wireOrigin  geom.Point // world
	wirePointer geom.Point // world

	selected     string
	viewW, viewH float64
}

// New returns an idle controller over g and vp.
func New(g *graph.Graph, vp *viewport.Viewport, opts Options) *Controller {
	c := &Controller{
		g:        g,
		vp:       vp,
		log:      opts.Logger,
		capture:  opts.Capture,
		onOpen:   opts.OnOpenProject,
		onEdit:   opts.OnEdit,
		onError:  opts.OnError,
		editable: opts.Editable,
		state:    State{Mode: Idle},
	}
	if c.capture == nil {
		c.capture = nopCapture{}
	}
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Selected returns the selected node id, or "".
func (c *Controller) Selected() string { return c.selected }

// Select marks a node as selected; "" clears the selection.
func (c *Controller) Select(id string) { c.selected = id }

// Editable reports whether mutating gestures are allowed.
func (c *Controller) Editable() bool { return c.editable }

// SetEditable switches edit mode. Leaving edit mode ends any gesture.
func (c *Controller) SetEditable(on bool) {
	if !on {
		c.Reset()
	}
	c.editable = on
}

// Blocked reports whether input is ignored.
func (c *Controller) Blocked() bool { return c.blocked }

// SetBlocked freezes the canvas while another view (an open project) has
// focus. Blocking ends any gesture.
func (c *Controller) SetBlocked(on bool) {
	if on {
		c.Reset()
	}
	c.blocked = on
}

// SetViewSize records the canvas size in screen units, used by Spawn.
func (c *Controller) SetViewSize(w, h float64) {
	c.viewW, c.viewH = w, h
}

// SetGraph points the controller at another graph, ending any gesture and
// clearing the selection.
func (c *Controller) SetGraph(g *graph.Graph) {
	c.Reset()
	c.g = g
	c.selected = ""
}

// PendingWire returns the world-space ends of the wire being drawn.
func (c *Controller) PendingWire() (origin, pointer geom.Point, ok bool) {
	if c.state.Mode != Wiring {
		return geom.Point{}, geom.Point{}, false
	}
	return c.wireOrigin, c.wirePointer, true
}

// Reset ends the active gesture. Local drag or resize changes are committed.
func (c *Controller) Reset() {
	c.end()
}

// Handle applies one input event. Only malformed events return an error;
// gestures that cannot apply are silently dropped.
func (c *Controller) Handle(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if c.blocked {
		return nil
	}
	switch ev.Type {
	case PointerDown:
		c.pointerDown(ev)
	case PointerMove:
		c.move(ev.Pos())
	case PointerUp:
		c.pointerUp(ev)
	case PointerLeave:
		c.pointerLeave()
	case Wheel:
		c.vp.ZoomAt(ev.Pos(), ev.DeltaY)
	case TouchStart:
		c.touchStart(ev)
	case TouchMove:
		if c.touchPan && len(ev.Touches) == 1 {
			c.move(ev.Touches[0])
		}
	case TouchEnd:
		if c.touchPan {
			c.end()
		}
	case Drop:
		c.drop(ev)
	case DoubleActivate:
		c.doubleActivate(ev)
	}
	return nil
}

// resolve returns the event's target, hit-testing when the host left it empty.
func (c *Controller) resolve(ev Event, at geom.Point) Target {
	if ev.Target.Kind != TargetNone {
		return ev.Target
	}
	return HitTest(c.g.Nodes.List(), c.vp.ScreenToWorld(at))
}

func (c *Controller) pointerDown(ev Event) {
	t := c.resolve(ev, ev.Pos())

	if c.state.Mode == Wiring && t.Kind == TargetBackground {
		c.end()
	}
	if c.state.Mode != Idle {
		return
	}

	// The middle button pans wherever it lands.
	if ev.Button == ButtonMiddle {
		c.begin(State{Mode: Panning}, ev.Pos())
		return
	}

	switch t.Kind {
	case TargetPin:
		c.startWire(t, ev.Pos())
	case TargetResize:
		c.pressResize(t.NodeID, ev.Pos())
	case TargetNode:
		c.pressNode(t.NodeID, ev.Pos())
	default:
		if ev.Button != ButtonPrimary {
			return
		}
		c.selected = ""
		c.begin(State{Mode: Panning}, ev.Pos())
	}
}

func (c *Controller) pressNode(id string, at geom.Point) {
	n, ok := c.g.Nodes.Get(id)
	if !ok {
		return
	}
	c.selected = id
	if c.editable {
		c.begin(State{Mode: DraggingNode, NodeID: id}, at)
		return
	}
	if n.IsProjectLink() {
		c.open(n.ProjectID)
	}
}

// pressResize starts a resize when the node's kind allows one. A handle
// reported on any other node is treated as a press on its body.
func (c *Controller) pressResize(id string, at geom.Point) {
	n, ok := c.g.Nodes.Get(id)
	if !ok {
		return
	}
	if !graph.KindOf(&n).Resizable() {
		c.pressNode(id, at)
		return
	}
	c.selected = id
	if c.editable {
		c.begin(State{Mode: ResizingNode, NodeID: id}, at)
	}
}

func (c *Controller) startWire(t Target, at geom.Point) {
	if !c.editable {
		return
	}
	n, ok := c.g.Nodes.Get(t.NodeID)
	if !ok {
		return
	}
	pin, ok := graph.FindPin(&n, t.Pin)
	if !ok {
		return
	}
	origin := graph.PinRef{NodeID: n.ID, Pin: pin.Name, Direction: pin.Direction}
	c.wireOrigin = wire.Anchor(&n, pin.Name, pin.Direction)
	c.wirePointer = c.vp.ScreenToWorld(at)
	c.begin(State{Mode: Wiring, Origin: origin}, at)
}

func (c *Controller) move(at geom.Point) {
	dx, dy := at.X-c.last.X, at.Y-c.last.Y
	c.last = at

	switch c.state.Mode {
	case Panning:
		c.vp.Pan(dx, dy)
	case DraggingNode:
		wdx, wdy := c.vp.ToWorldDelta(dx, dy)
		c.g.Nodes.MoveLocal(c.state.NodeID, wdx, wdy)
	case ResizingNode:
		wdx, wdy := c.vp.ToWorldDelta(dx, dy)
		c.g.Nodes.ResizeLocal(c.state.NodeID, wdx, wdy)
	case Wiring:
		c.wirePointer = c.vp.ScreenToWorld(at)
	}
}

func (c *Controller) pointerUp(ev Event) {
	if c.state.Mode == Wiring {
		if t := c.resolve(ev, ev.Pos()); t.Kind == TargetPin {
			c.connect(t)
		}
	}
	c.end()
}

// pointerLeave ends every gesture except wiring, which waits for the next
// pointer-up anywhere.
func (c *Controller) pointerLeave() {
	switch c.state.Mode {
	case Panning, DraggingNode, ResizingNode:
		c.end()
	}
}

func (c *Controller) connect(t Target) {
	n, ok := c.g.Nodes.Get(t.NodeID)
	if !ok {
		return
	}
	pin, ok := graph.FindPin(&n, t.Pin)
	if !ok {
		return
	}
	target := graph.PinRef{NodeID: n.ID, Pin: pin.Name, Direction: pin.Direction}
	conn, ok, err := c.g.Connections.Add(c.state.Origin, target)
	if err != nil {
		c.report(err)
		return
	}
	if !ok {
		c.log.Debug().
			Stringer("from", c.state.Origin).
			Stringer("to", target).
			Msg("incompatible pins, wire dropped")
		return
	}
	c.log.Debug().Str("connection", conn.ID).Msg("connected")
}

func (c *Controller) touchStart(ev Event) {
	if c.state.Mode != Idle || len(ev.Touches) != 1 {
		return
	}
	at := ev.Touches[0]
	if c.resolve(ev, at).Kind != TargetBackground {
		return
	}
	c.begin(State{Mode: Panning}, at)
	c.touchPan = true
}

func (c *Controller) drop(ev Event) {
	if !c.editable {
		return
	}
	s, err := project.ParsePayload(ev.Payload)
	if err != nil {
		c.log.Warn().Err(err).Msg("ignoring project drop")
		return
	}
	n := s.LinkNode(c.vp.ScreenToWorld(ev.Pos()))
	if err := c.g.Nodes.Add(n); err != nil {
		c.report(err)
		return
	}
	c.log.Info().Str("node", n.ID).Str("project", s.ID).Msg("project dropped")
}

// doubleActivate opens project links regardless of edit mode; other nodes
// go to the edit callback in edit mode only.
func (c *Controller) doubleActivate(ev Event) {
	t := c.resolve(ev, ev.Pos())
	if t.NodeID == "" {
		return
	}
	n, ok := c.g.Nodes.Get(t.NodeID)
	if !ok {
		return
	}
	if n.IsProjectLink() {
		c.open(n.ProjectID)
		return
	}
	if c.editable && c.onEdit != nil {
		c.onEdit(n)
	}
}

func (c *Controller) open(projectID string) {
	if projectID == "" {
		c.log.Warn().Msg("project link has no project id")
		return
	}
	if c.onOpen != nil {
		c.onOpen(projectID)
	}
}

func (c *Controller) begin(s State, at geom.Point) {
	c.state = s
	c.last = at
	c.capture.Acquire()
}

func (c *Controller) end() {
	prev := c.state
	if prev.Mode == Idle {
		return
	}
	c.state = State{Mode: Idle}
	c.touchPan = false
	c.capture.Release()

	if prev.Mode == DraggingNode || prev.Mode == ResizingNode {
		c.report(c.g.Nodes.Commit())
	}
}

func (c *Controller) report(err error) {
	if err == nil {
		return
	}
	c.log.Error().Err(err).Msg("persisting graph")
	if c.onError != nil {
		c.onError(err)
	}
}

// Spawn adds a node of type t near the centre of the view.
func (c *Controller) Spawn(t graph.Type) (graph.Node, error) {
	if !c.editable {
		return graph.Node{}, ErrReadOnly
	}
	k, ok := graph.KindFor(t)
	if !ok {
		return graph.Node{}, fmt.Errorf("%w: %q", graph.ErrUnknownType, t)
	}
	tpl := k.Template()
	n := graph.Node{
		ID:           graph.NewID("node"),
		Type:         t,
		Title:        tpl.Title,
		Subtitle:     tpl.Subtitle,
		Description:  tpl.Description,
		Category:     tpl.Category,
		Width:        tpl.Width,
		Height:       tpl.Height,
		SequencePins: tpl.SequencePins,
		X:            (c.viewW/2 - c.vp.PanX) - spawnOffsetX,
		Y:            (c.viewH/2 - c.vp.PanY) - spawnOffsetY,
	}
	if err := c.g.Nodes.Add(n); err != nil {
		return n, err
	}
	return n, nil
}

// Delete removes a node and its connections.
func (c *Controller) Delete(id string) error {
	if !c.editable {
		return ErrReadOnly
	}
	if c.state.NodeID == id || c.state.Origin.NodeID == id {
		c.end()
	}
	if c.selected == id {
		c.selected = ""
	}
	return c.g.Nodes.Remove(id)
}
