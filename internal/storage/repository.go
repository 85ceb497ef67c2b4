package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/project"
)

// Key prefixes and the catalog key.
const (
	NodesPrefix       = "nodes_"
	ConnectionsPrefix = "connections_"
	ProjectsKey       = "projects"
)

// ErrCorrupt marks a stored value that is not valid JSON for its key.
var ErrCorrupt = errors.New("stored value is corrupt")

// NodesKey returns the key holding a graph's nodes.
func NodesKey(graphID string) string { return NodesPrefix + graphID }

// ConnectionsKey returns the key holding a graph's connections.
func ConnectionsKey(graphID string) string { return ConnectionsPrefix + graphID }

// Repository reads and writes graphs and the project catalog.
type Repository struct {
	kv KV
}

// NewRepository wraps a KV.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Snapshot is the stored content of one graph.
type Snapshot struct {
	Nodes       []graph.Node       `json:"nodes"`
	Connections []graph.Connection `json:"connections"`
	// Found is false when no nodes were ever stored for the graph.
	Found bool `json:"-"`
}

// LoadGraph reads both collections of a graph. A corrupt collection is
// returned empty alongside an ErrCorrupt error; the other collection is
// still loaded.
func (r *Repository) LoadGraph(graphID string) (Snapshot, error) {
	var snap Snapshot
	var errs []error

	found, err := r.getJSON(NodesKey(graphID), &snap.Nodes)
	if err != nil {
		snap.Nodes = nil
		errs = append(errs, err)
	}
	snap.Found = found

	if _, err := r.getJSON(ConnectionsKey(graphID), &snap.Connections); err != nil {
		snap.Connections = nil
		errs = append(errs, err)
	}
	return snap, errors.Join(errs...)
}

// SaveNodes replaces a graph's stored nodes.
func (r *Repository) SaveNodes(graphID string, nodes []graph.Node) error {
	if nodes == nil {
		nodes = []graph.Node{}
	}
	return r.setJSON(NodesKey(graphID), nodes)
}

// SaveConnections replaces a graph's stored connections.
func (r *Repository) SaveConnections(graphID string, conns []graph.Connection) error {
	if conns == nil {
		conns = []graph.Connection{}
	}
	return r.setJSON(ConnectionsKey(graphID), conns)
}

// DeleteGraph removes both collections of a graph.
func (r *Repository) DeleteGraph(graphID string) error {
	return errors.Join(
		r.kv.Delete(NodesKey(graphID)),
		r.kv.Delete(ConnectionsKey(graphID)),
	)
}

// Graphs lists the ids of graphs with stored nodes, sorted.
func (r *Repository) Graphs() ([]string, error) {
	keys, err := r.kv.Keys(NodesPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, NodesPrefix))
	}
	return ids, nil
}

// Persister returns a graph.Persister bound to one graph id.
func (r *Repository) Persister(graphID string) graph.Persister {
	return graphPersister{repo: r, id: graphID}
}

type graphPersister struct {
	repo *Repository
	id   string
}

func (p graphPersister) SaveNodes(nodes []graph.Node) error {
	return p.repo.SaveNodes(p.id, nodes)
}

func (p graphPersister) SaveConnections(conns []graph.Connection) error {
	return p.repo.SaveConnections(p.id, conns)
}

// Projects returns the project catalog.
func (r *Repository) Projects() ([]project.Summary, error) {
	var catalog []project.Summary
	if _, err := r.getJSON(ProjectsKey, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Project returns one catalog entry.
func (r *Repository) Project(id string) (project.Summary, error) {
	catalog, err := r.Projects()
	if err != nil {
		return project.Summary{}, err
	}
	s, ok := project.Find(catalog, id)
	if !ok {
		return project.Summary{}, fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	return s, nil
}

// AddProject validates s and appends it to the catalog.
func (r *Repository) AddProject(s project.Summary) error {
	if err := s.Validate(); err != nil {
		return err
	}
	catalog, err := r.Projects()
	if err != nil {
		return err
	}
	if _, ok := project.Find(catalog, s.ID); ok {
		return fmt.Errorf("%w: %s", project.ErrDuplicateID, s.ID)
	}
	return r.setJSON(ProjectsKey, append(catalog, s))
}

// RemoveProject drops a catalog entry. Project-link nodes pointing at it
// are left alone; activating them logs the unknown id.
func (r *Repository) RemoveProject(id string) error {
	catalog, err := r.Projects()
	if err != nil {
		return err
	}
	kept := catalog[:0]
	for _, s := range catalog {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(catalog) {
		return fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	return r.setJSON(ProjectsKey, kept)
}

func (r *Repository) getJSON(key string, v any) (bool, error) {
	raw, ok, err := r.kv.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (r *Repository) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return r.kv.Set(key, string(data))
}
