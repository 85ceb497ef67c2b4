// Package session owns the canvas state for one user: the active graph and
// its stores, the viewport, the simulation, and the input controller.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matsen/blueprint/internal/clipboard"
	"github.com/matsen/blueprint/internal/config"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/interact"
	"github.com/matsen/blueprint/internal/project"
	"github.com/matsen/blueprint/internal/render"
	"github.com/matsen/blueprint/internal/sim"
	"github.com/matsen/blueprint/internal/storage"
	"github.com/matsen/blueprint/internal/viewport"
	"github.com/matsen/blueprint/internal/wire"
)

// ErrNoGraph is returned by graph operations before the first Switch.
var ErrNoGraph = errors.New("no graph is active")

// Options configures a Session.
type Options struct {
	Logger       zerolog.Logger
	Limits       viewport.Limits
	SimMaxPasses int
	Editable     bool
	ViewWidth    float64
	ViewHeight   float64
	Clipboard    clipboard.Copier
	Capture      interact.Capture
	// OnOpenProject is the host's "open project" operation.
	OnOpenProject func(project.Summary)
	// OnEdit is called when a node is double-activated in edit mode.
	OnEdit func(graph.Node)
}

// Session is driven from a single event loop and is not safe for
// concurrent use.
type Session struct {
	repo *storage.Repository
	log  zerolog.Logger

	graphID string
	g       *graph.Graph
	vp      *viewport.Viewport
	ctrl    *interact.Controller
	sim     *sim.Simulator

	clip    clipboard.Copier
	onOpen  func(project.Summary)
	opened  string
	lastErr error
}

// New returns a session with no active graph; call Switch before use.
func New(repo *storage.Repository, opts Options) *Session {
	s := &Session{
		repo:   repo,
		log:    opts.Logger,
		g:      graph.New(nil, nil, nil),
		vp:     viewport.New(opts.Limits),
		sim:    sim.New(opts.SimMaxPasses),
		clip:   opts.Clipboard,
		onOpen: opts.OnOpenProject,
	}
	if s.clip == nil {
		s.clip = clipboard.System{}
	}
	s.ctrl = interact.New(s.g, s.vp, interact.Options{
		Logger:        opts.Logger,
		Capture:       opts.Capture,
		Editable:      opts.Editable,
		OnOpenProject: func(id string) { s.OpenProject(id) },
		OnEdit:        opts.OnEdit,
		OnError:       func(err error) { s.lastErr = err },
	})
	s.ctrl.SetViewSize(opts.ViewWidth, opts.ViewHeight)
	return s
}

// Switch makes graphID the active graph. A graph with no stored nodes starts
// empty, except the default graph which starts with the career timeline.
// A corrupt collection is logged and loaded empty; the returned error then
// wraps storage.ErrCorrupt but the switch still happens.
func (s *Session) Switch(graphID string) error {
	if err := config.ValidateGraphID(graphID); err != nil {
		return err
	}
	snap, err := s.repo.LoadGraph(graphID)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		s.log.Error().Err(err).Str("graph", graphID).Msg("switching graph")
		return fmt.Errorf("loading graph %s: %w", graphID, err)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("graph", graphID).Msg("ignoring corrupt graph data")
		s.lastErr = err
	}

	nodes := snap.Nodes
	if !snap.Found && graphID == config.DefaultGraphID {
		nodes = CareerNodes()
	}

	s.graphID = graphID
	s.g = graph.New(s.repo.Persister(graphID), nodes, snap.Connections)
	s.ctrl.SetGraph(s.g)
	s.sim.Invalidate()
	s.log.Debug().Str("graph", graphID).Int("nodes", len(nodes)).Msg("switched graph")
	return err
}

// GraphID returns the active graph id.
func (s *Session) GraphID() string { return s.graphID }

// Graph returns the active graph.
func (s *Session) Graph() *graph.Graph { return s.g }

// Viewport returns the session viewport. It is not persisted.
func (s *Session) Viewport() *viewport.Viewport { return s.vp }

// Controller returns the input controller.
func (s *Session) Controller() *interact.Controller { return s.ctrl }

// Simulator returns the reachability simulator.
func (s *Session) Simulator() *sim.Simulator { return s.sim }

// Editable reports whether edit mode is on.
func (s *Session) Editable() bool { return s.ctrl.Editable() }

// SetEditable switches edit mode.
func (s *Session) SetEditable(on bool) { s.ctrl.SetEditable(on) }

// LastError returns the most recent persistence failure, if any.
func (s *Session) LastError() error { return s.lastErr }

// Handle feeds one input event to the controller.
func (s *Session) Handle(ev interact.Event) error {
	if s.graphID == "" {
		return ErrNoGraph
	}
	return s.ctrl.Handle(ev)
}

// Active returns the nodes reached by the simulation, or nil when stopped.
func (s *Session) Active() sim.Set {
	return s.sim.Active(s.g)
}

// Wires lays out every connection for the current frame.
func (s *Session) Wires() []wire.Segment {
	return wire.Layout(s.g.Nodes.List(), s.g.Connections.List(), s.vp, wire.Options{
		Active:   s.Active(),
		Selected: s.ctrl.Selected(),
		EditMode: s.ctrl.Editable(),
	})
}

// PendingWire returns the in-progress wire, if one is being drawn.
func (s *Session) PendingWire() (wire.Segment, bool) {
	origin, pointer, ok := s.ctrl.PendingWire()
	if !ok {
		return wire.Segment{}, false
	}
	return wire.Pending(origin, pointer, s.vp), true
}

// Scene captures the current frame for rendering.
func (s *Session) Scene() render.Scene {
	scene := render.Scene{
		GraphID:  s.graphID,
		Viewport: s.vp.State,
		Nodes:    s.g.Nodes.List(),
		Wires:    s.Wires(),
		Active:   s.Active(),
		Selected: s.ctrl.Selected(),
		EditMode: s.ctrl.Editable(),
	}
	if seg, ok := s.PendingWire(); ok {
		scene.Pending = &seg
	}
	return scene
}

// Export returns the active graph as pretty-printed {nodes, connections}.
func (s *Session) Export() ([]byte, error) {
	snap := storage.Snapshot{
		Nodes:       s.g.Nodes.List(),
		Connections: s.g.Connections.List(),
	}
	if snap.Nodes == nil {
		snap.Nodes = []graph.Node{}
	}
	if snap.Connections == nil {
		snap.Connections = []graph.Connection{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// CopyToClipboard puts the export on the clipboard. It is an admin action.
func (s *Session) CopyToClipboard() error {
	if !s.ctrl.Editable() {
		return interact.ErrReadOnly
	}
	data, err := s.Export()
	if err != nil {
		return err
	}
	if err := s.clip.Copy(string(data)); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// OpenProject opens a catalog project and freezes the canvas until
// CloseProject. Unknown ids are logged and ignored.
func (s *Session) OpenProject(id string) {
	p, err := s.repo.Project(id)
	if err != nil {
		s.log.Warn().Err(err).Str("project", id).Msg("cannot open project")
		return
	}
	s.opened = p.ID
	s.ctrl.SetBlocked(true)
	s.log.Info().Str("project", p.ID).Msg("opened project")
	if s.onOpen != nil {
		s.onOpen(p)
	}
}

// OpenedProject returns the id of the open project, or "".
func (s *Session) OpenedProject() string { return s.opened }

// CloseProject returns focus to the canvas.
func (s *Session) CloseProject() {
	s.opened = ""
	s.ctrl.SetBlocked(false)
}

// Spawn adds a node of type t at the centre of the view.
func (s *Session) Spawn(t graph.Type) (graph.Node, error) {
	if s.graphID == "" {
		return graph.Node{}, ErrNoGraph
	}
	return s.ctrl.Spawn(t)
}

// AddNode inserts a fully specified node, e.g. from the CLI.
func (s *Session) AddNode(n graph.Node) error {
	if err := s.editCheck(); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = graph.NewID("node")
	}
	return s.g.Nodes.Add(n)
}

// UpdateNode edits a node's fields.
func (s *Session) UpdateNode(id string, fn func(*graph.Node)) error {
	if err := s.editCheck(); err != nil {
		return err
	}
	return s.g.Nodes.Update(id, fn)
}

// MoveNode places a node at an absolute world position.
func (s *Session) MoveNode(id string, x, y float64) error {
	return s.UpdateNode(id, func(n *graph.Node) {
		n.X, n.Y = x, y
	})
}

// AddSequencePin grows a sequence node by one output.
func (s *Session) AddSequencePin(id string) error {
	if err := s.editCheck(); err != nil {
		return err
	}
	n, ok := s.g.Nodes.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	if n.Type != graph.TypeSequence {
		return fmt.Errorf("node %s is a %s, not a sequence", id, n.Type)
	}
	return s.g.Nodes.AddSequencePin(id)
}

// Delete removes a node and every connection touching it.
func (s *Session) Delete(id string) error {
	if s.graphID == "" {
		return ErrNoGraph
	}
	return s.ctrl.Delete(id)
}

// Connect wires two pins. Both nodes and pins must exist; ok is false when
// the pins are incompatible.
func (s *Session) Connect(a, b graph.PinRef) (graph.Connection, bool, error) {
	if err := s.editCheck(); err != nil {
		return graph.Connection{}, false, err
	}
	for _, ref := range []*graph.PinRef{&a, &b} {
		n, ok := s.g.Nodes.Get(ref.NodeID)
		if !ok {
			return graph.Connection{}, false, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, ref.NodeID)
		}
		pin, ok := graph.FindPin(&n, ref.Pin)
		if !ok {
			return graph.Connection{}, false, fmt.Errorf("node %s has no pin %q", ref.NodeID, ref.Pin)
		}
		ref.Direction = pin.Direction
	}
	return s.g.Connections.Add(a, b)
}

// Disconnect removes a connection by id.
func (s *Session) Disconnect(connID string) (bool, error) {
	if err := s.editCheck(); err != nil {
		return false, err
	}
	n, err := s.g.Connections.Remove(func(c graph.Connection) bool { return c.ID == connID })
	return n > 0, err
}

// Stale lists connections whose endpoints are missing.
func (s *Session) Stale() []graph.StaleConnection {
	return graph.FindStale(s.g.Connections.List(), s.g.Nodes.List())
}

func (s *Session) editCheck() error {
	if s.graphID == "" {
		return ErrNoGraph
	}
	if !s.ctrl.Editable() {
		return interact.ErrReadOnly
	}
	return nil
}
