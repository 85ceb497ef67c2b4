// Package graph defines the blueprint graph domain: nodes, pins, connections,
// the closed set of node kinds, and the stores that own them.
package graph

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type is the persisted node type string.
type Type string

// Node types as they appear in stored graphs.
const (
	TypeEvent       Type = "event"
	TypeFunction    Type = "function"
	TypeVariableGet Type = "variable"
	TypeVariableSet Type = "variable_set"
	TypeComment     Type = "comment"
	TypeSequence    Type = "sequence"
	TypeProject     Type = "project"
	TypeTick        Type = "tick"
	TypeBeginPlay   Type = "beginplay"
)

// Types lists every node type in palette order.
var Types = []Type{
	TypeBeginPlay, TypeEvent, TypeTick, TypeComment, TypeSequence,
	TypeProject, TypeFunction, TypeVariableGet, TypeVariableSet,
}

// typeAliases maps the spelled-out names accepted on input to stored types.
var typeAliases = map[string]Type{
	"variable-get": TypeVariableGet,
	"variable-set": TypeVariableSet,
	"project-link": TypeProject,
	"begin-play":   TypeBeginPlay,
}

// ParseType resolves a user-supplied type name, accepting aliases.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[s]; ok {
		return t, nil
	}
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Category groups node types for coloring and simulation seeding.
type Category string

// Node categories.
const (
	CategoryEvent    Category = "event"
	CategoryFunction Category = "function"
	CategoryVariable Category = "variable"
	CategoryUtility  Category = "utility"
	CategoryOther    Category = "other"
)

// Node is a single box on the canvas. Field names match the stored JSON.
type Node struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Details     string   `json:"details,omitempty"`
	Year        int      `json:"year,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       float64  `json:"width,omitempty"`  // 0 means kind default
	Height      float64  `json:"height,omitempty"` // 0 means kind default
	Category    Category `json:"category,omitempty"`

	SequencePins int    `json:"sequencePins,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	Image        string `json:"image,omitempty"`
	TargetClass  string `json:"targetClass,omitempty"`
	HasTarget    bool   `json:"hasTarget,omitempty"`
	Next         string `json:"next,omitempty"`
}

// MinSequencePins is the smallest number of "Then" outputs a sequence node has.
const MinSequencePins = 2

// MinNodeSize is the floor applied to both dimensions when resizing.
const MinNodeSize = 100

// Validation errors.
var (
	ErrEmptyID           = errors.New("node id is required")
	ErrUnknownType       = errors.New("unknown node type")
	ErrNonFinitePosition = errors.New("node position must be finite")
	ErrSequencePins      = errors.New("sequencePins must be at least 2")
	ErrDuplicateID       = errors.New("node with this id already exists")
	ErrNodeNotFound      = errors.New("node not found")
)

// Validate checks the invariants every stored node must satisfy.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if _, err := ParseType(string(n.Type)); err != nil {
		return err
	}
	if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
		return ErrNonFinitePosition
	}
	if n.SequencePins != 0 && n.SequencePins < MinSequencePins {
		return ErrSequencePins
	}
	return nil
}

// Pins returns the number of sequence outputs, applying the default.
func (n *Node) Pins() int {
	if n.SequencePins < MinSequencePins {
		return MinSequencePins
	}
	return n.SequencePins
}

// IsProjectLink reports whether activating the node should open a project.
func (n *Node) IsProjectLink() bool {
	return n.Type == TypeProject
}
