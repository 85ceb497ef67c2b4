package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Persister receives the full node or connection list whenever a store
// commits. Implementations are keyed to one graph by their owner.
type Persister interface {
	SaveNodes(nodes []Node) error
	SaveConnections(conns []Connection) error
}

// Graph pairs the node and connection stores of one blueprint.
type Graph struct {
	Nodes       *NodeStore
	Connections *ConnectionStore
}

// New builds a graph over the given initial contents. A nil persister keeps
// everything in memory.
func New(p Persister, nodes []Node, conns []Connection) *Graph {
	cs := &ConnectionStore{persist: p, conns: append([]Connection(nil), conns...)}
	ns := &NodeStore{persist: p, conns: cs, nodes: append([]Node(nil), nodes...)}
	return &Graph{Nodes: ns, Connections: cs}
}

// NewID returns a fresh identifier with the given prefix.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// NodeStore is the ordered node list of one graph. It is not safe for
// concurrent use; the canvas drives it from a single event loop.
type NodeStore struct {
	nodes   []Node
	conns   *ConnectionStore
	persist Persister
	version uint64
	dirty   bool
}

// List returns a copy of the nodes in insertion order.
func (s *NodeStore) List() []Node {
	return append([]Node(nil), s.nodes...)
}

// Len returns the number of nodes.
func (s *NodeStore) Len() int {
	return len(s.nodes)
}

// Version increases on every change, local or committed.
func (s *NodeStore) Version() uint64 {
	return s.version
}

// Dirty reports whether local changes are waiting for Commit.
func (s *NodeStore) Dirty() bool {
	return s.dirty
}

// Get returns the node with the given id.
func (s *NodeStore) Get(id string) (Node, bool) {
	if i := s.index(id); i >= 0 {
		return s.nodes[i], true
	}
	return Node{}, false
}

func (s *NodeStore) index(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a node and persists the list.
func (s *NodeStore) Add(n Node) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if s.index(n.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
	}
	s.nodes = append(s.nodes, n)
	return s.commitNodes()
}

// Update applies fn to the node with the given id and persists the list.
// The id itself cannot be changed.
func (s *NodeStore) Update(id string, fn func(*Node)) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	updated := s.nodes[i]
	fn(&updated)
	updated.ID = id
	if err := updated.Validate(); err != nil {
		return err
	}
	s.nodes[i] = updated
	return s.commitNodes()
}

// Remove deletes a node together with every connection touching it.
// Removing an unknown id is a no-op.
func (s *NodeStore) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.nodes = append(s.nodes[:i:i], s.nodes[i+1:]...)
	removed := s.conns.drop(func(c Connection) bool { return c.Touches(id) })

	err := s.commitNodes()
	if removed > 0 {
		err = errors.Join(err, s.conns.commit())
	}
	return err
}

// AddSequencePin grows a sequence node by one "Then" output.
func (s *NodeStore) AddSequencePin(id string) error {
	return s.Update(id, func(n *Node) {
		n.SequencePins = n.Pins() + 1
	})
}

// MoveLocal shifts a node by a world-space delta without persisting.
func (s *NodeStore) MoveLocal(id string, dx, dy float64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.nodes[i].X += dx
	s.nodes[i].Y += dy
	s.touchLocal()
	return true
}

// ResizeLocal grows a node by a world-space delta without persisting.
// Both dimensions are floored at MinNodeSize.
func (s *NodeStore) ResizeLocal(id string, dw, dh float64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	n := &s.nodes[i]
	w, h := n.Width, n.Height
	if w <= 0 {
		w = 300
	}
	if h <= 0 {
		h = 200
	}
	n.Width = max(MinNodeSize, w+dw)
	n.Height = max(MinNodeSize, h+dh)
	s.touchLocal()
	return true
}

// Commit persists local changes. It is a no-op when nothing is pending.
func (s *NodeStore) Commit() error {
	if !s.dirty {
		return nil
	}
	return s.commitNodes()
}

func (s *NodeStore) touchLocal() {
	s.version++
	s.dirty = true
}

func (s *NodeStore) commitNodes() error {
	s.version++
	s.dirty = false
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveNodes(s.List()); err != nil {
		return fmt.Errorf("saving nodes: %w", err)
	}
	return nil
}

// ConnectionStore is the ordered connection list of one graph.
type ConnectionStore struct {
	conns   []Connection
	persist Persister
	version uint64
}

// List returns a copy of the connections in insertion order.
func (s *ConnectionStore) List() []Connection {
	return append([]Connection(nil), s.conns...)
}

// Len returns the number of connections.
func (s *ConnectionStore) Len() int {
	return len(s.conns)
}

// Version increases on every change.
func (s *ConnectionStore) Version() uint64 {
	return s.version
}

// Add wires two pins together. The output end is stored as From whichever
// end the gesture started on. When both pins sit on the same node or share a
// direction nothing happens and ok is false.
func (s *ConnectionStore) Add(a, b PinRef) (c Connection, ok bool, err error) {
	if !validDirection(a.Direction) || !validDirection(b.Direction) || !canConnect(a, b) {
		return Connection{}, false, nil
	}
	from, to := a, b
	if a.Direction == In {
		from, to = b, a
	}
	c = Connection{
		ID:      NewID("conn"),
		From:    from.NodeID,
		FromPin: from.Pin,
		To:      to.NodeID,
		ToPin:   to.Pin,
		IsData:  IsDataPinName(a.Pin) || IsDataPinName(b.Pin),
	}
	s.conns = append(s.conns, c)
	return c, true, s.commit()
}

// Insert appends an already-built connection, e.g. from an import.
func (s *ConnectionStore) Insert(c Connection) error {
	if c.ID == "" {
		c.ID = NewID("conn")
	}
	s.conns = append(s.conns, c)
	return s.commit()
}

// Remove deletes every connection matching pred and returns how many went.
func (s *ConnectionStore) Remove(pred func(Connection) bool) (int, error) {
	removed := s.drop(pred)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.commit()
}

// drop filters connections in memory only.
func (s *ConnectionStore) drop(pred func(Connection) bool) int {
	kept := s.conns[:0:0]
	for _, c := range s.conns {
		if !pred(c) {
			kept = append(kept, c)
		}
	}
	removed := len(s.conns) - len(kept)
	s.conns = kept
	return removed
}

func (s *ConnectionStore) commit() error {
	s.version++
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveConnections(s.List()); err != nil {
		return fmt.Errorf("saving connections: %w", err)
	}
	return nil
}

func validDirection(d Direction) bool {
	return d == In || d == Out
}
