// Package project defines the project summaries that can be dropped onto the
// canvas as project-link nodes and opened from them.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
)

// Summary is one entry of the project catalog. The drag-and-drop payload
// carries the same fields.
type Summary struct {
	ID          string   `json:"id"`                    // Required: unique identifier
	Title       string   `json:"title"`                 // Required: display title
	Category    string   `json:"category,omitempty"`    // e.g. "BP_RPG"
	Tags        []string `json:"tags,omitempty"`        // e.g. ["MAIN"]
	Date        string   `json:"date,omitempty"`        // free-form, "2025.11"
	Image       string   `json:"image,omitempty"`       // preview URL or path
	Description string   `json:"description,omitempty"` // Optional
	Details     string   `json:"details,omitempty"`     // Optional, newline separated
	Link        string   `json:"link,omitempty"`        // Optional
}

// IDPattern is the regex pattern for valid project IDs.
// Must start with alphanumeric, followed by alphanumeric, hyphens, or underscores.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validation errors.
var (
	ErrEmptyID         = errors.New("id is required")
	ErrInvalidID       = errors.New("id must match pattern: lowercase alphanumeric, hyphens, underscores; must start with alphanumeric")
	ErrEmptyTitle      = errors.New("title is required")
	ErrDuplicateID     = errors.New("project with this id already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrMalformed       = errors.New("malformed project payload")
)

// Validate checks a summary before it enters the catalog.
func (s *Summary) Validate() error {
	if err := ValidateID(s.ID); err != nil {
		return err
	}
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateID validates just the ID field (useful for lookup operations).
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// ParsePayload decodes a drop payload. Anything that is not a JSON object
// with a non-empty id is malformed.
func ParsePayload(data []byte) (Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.ID == "" {
		return Summary{}, fmt.Errorf("%w: %v", ErrMalformed, ErrEmptyID)
	}
	return s, nil
}

// Default texts of a dropped project-link node.
const (
	LinkSubtitle           = "Project Asset"
	LinkDescriptionDefault = "Project details..."
	linkTitlePrefix        = "P_"
)

// LinkNode builds the project-link node created when s is dropped at the
// given world position.
func (s Summary) LinkNode(at geom.Point) graph.Node {
	desc := s.Description
	if desc == "" {
		desc = LinkDescriptionDefault
	}
	return graph.Node{
		ID:          graph.NewID("node_proj"),
		Type:        graph.TypeProject,
		Title:       linkTitlePrefix + s.Title,
		Subtitle:    LinkSubtitle,
		Description: desc,
		Image:       s.Image,
		X:           at.X,
		Y:           at.Y,
		Category:    graph.CategoryOther,
		ProjectID:   s.ID,
	}
}

// Find returns the summary with the given id.
func Find(catalog []Summary, id string) (Summary, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Summary{}, false
}
