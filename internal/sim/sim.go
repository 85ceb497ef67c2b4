// Package sim marks which nodes are "executing" when the canvas simulation
// is switched on. It is a visual traversal, not an interpreter: every node
// reachable from an entry point through any connection is active.
package sim

import (
	"slices"
	"sort"

	"github.com/matsen/blueprint/internal/graph"
)

// DefaultMaxPasses bounds the fixed-point iteration.
const DefaultMaxPasses = 100

// Set is a set of active node ids.
type Set map[string]bool

// IDs returns the members in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Result is the outcome of one traversal.
type Result struct {
	Active Set
	Passes int
	// Capped is set when the pass limit stopped the traversal early.
	Capped bool
}

// Reachable seeds the active set with entry nodes and then repeatedly adds
// the target of any connection whose source is active, until nothing
// changes or maxPasses passes have run. maxPasses <= 0 uses the default.
func Reachable(nodes []graph.Node, conns []graph.Connection, maxPasses int) Result {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	active := make(Set)
	for i := range nodes {
		if graph.IsEntry(&nodes[i]) {
			active[nodes[i].ID] = true
		}
	}

	res := Result{Active: active}
	changed := true
	for changed && res.Passes < maxPasses {
		changed = false
		res.Passes++
		for _, c := range conns {
			if active[c.From] && !active[c.To] {
				active[c.To] = true
				changed = true
			}
		}
	}
	// The last pass may have reached the fixed point; only a pending edge
	// means the cap cut the traversal short.
	if changed {
		res.Capped = slices.ContainsFunc(conns, func(c graph.Connection) bool {
			return active[c.From] && !active[c.To]
		})
	}
	return res
}

// Simulator caches the active set for a graph and recomputes it only when
// nodes, connections, or the simulating flag change.
type Simulator struct {
	maxPasses  int
	simulating bool

	valid    bool
	nodesVer uint64
	connsVer uint64
	last     Result
}

// New returns a stopped simulator.
func New(maxPasses int) *Simulator {
	return &Simulator{maxPasses: maxPasses}
}

// Simulating reports whether the simulation is on.
func (s *Simulator) Simulating() bool {
	return s.simulating
}

// SetSimulating switches the simulation on or off.
func (s *Simulator) SetSimulating(on bool) {
	if s.simulating != on {
		s.simulating = on
		s.valid = false
	}
}

// Toggle flips the simulating flag and returns the new value.
func (s *Simulator) Toggle() bool {
	s.SetSimulating(!s.simulating)
	return s.simulating
}

// Invalidate drops the cached result, e.g. after switching graphs.
func (s *Simulator) Invalidate() {
	s.valid = false
}

// Active returns the active ids for g, or nil when not simulating.
func (s *Simulator) Active(g *graph.Graph) Set {
	if !s.simulating {
		return nil
	}
	return s.Result(g).Active
}

// Result returns the full traversal result for g, recomputing if stale.
func (s *Simulator) Result(g *graph.Graph) Result {
	if !s.simulating {
		return Result{}
	}
	nv, cv := g.Nodes.Version(), g.Connections.Version()
	if s.valid && nv == s.nodesVer && cv == s.connsVer {
		return s.last
	}
	s.last = Reachable(g.Nodes.List(), g.Connections.List(), s.maxPasses)
	s.nodesVer, s.connsVer = nv, cv
	s.valid = true
	return s.last
}
