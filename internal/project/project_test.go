package project

import (
	"errors"
	"strings"
	"testing"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
)

func TestSummary_Validate(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		wantErr error
	}{
		{
			name:    "valid summary",
			summary: Summary{ID: "proj1", Title: "Elden Echoes"},
			wantErr: nil,
		},
		{
			name:    "valid summary with hyphen",
			summary: Summary{ID: "neon-strike", Title: "Neon Strike"},
			wantErr: nil,
		},
		{
			name:    "empty id",
			summary: Summary{ID: "", Title: "Elden Echoes"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "blank title",
			summary: Summary{ID: "proj1", Title: "   "},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "id with uppercase",
			summary: Summary{ID: "Proj1", Title: "Elden Echoes"},
			wantErr: ErrInvalidID,
		},
		{
			name:    "id starting with underscore",
			summary: Summary{ID: "_proj", Title: "Elden Echoes"},
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.summary.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantID    string
		wantError bool
	}{
		{"full payload", `{"id":"proj1","title":"Elden Echoes","description":"RPG","image":"/img.jpg"}`, "proj1", false},
		{"extra fields ignored", `{"id":"proj2","title":"Neon","tags":["MAIN"],"unknown":1}`, "proj2", false},
		{"not json", `proj1`, "", true},
		{"truncated", `{"id":"proj1"`, "", true},
		{"missing id", `{"title":"Nameless"}`, "", true},
		{"array", `[1,2]`, "", true},
		{"empty", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParsePayload([]byte(tt.payload))
			if tt.wantError {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("ParsePayload() error = %v, want ErrMalformed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePayload() unexpected error: %v", err)
			}
			if s.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", s.ID, tt.wantID)
			}
		})
	}
}

func TestSummary_LinkNode(t *testing.T) {
	s := Summary{ID: "proj1", Title: "Elden Echoes", Image: "/img.jpg"}
	n := s.LinkNode(geom.Pt(120, -40))

	if !strings.HasPrefix(n.ID, "node_proj_") {
		t.Errorf("ID = %q, want node_proj_ prefix", n.ID)
	}
	if n.Type != graph.TypeProject || n.Category != graph.CategoryOther {
		t.Errorf("type/category = %s/%s", n.Type, n.Category)
	}
	if n.Title != "P_Elden Echoes" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Subtitle != LinkSubtitle {
		t.Errorf("Subtitle = %q", n.Subtitle)
	}
	if n.Description != LinkDescriptionDefault {
		t.Errorf("Description = %q, want default", n.Description)
	}
	if n.ProjectID != "proj1" || n.Image != "/img.jpg" {
		t.Errorf("ProjectID/Image = %q/%q", n.ProjectID, n.Image)
	}
	if n.X != 120 || n.Y != -40 {
		t.Errorf("position = (%v, %v)", n.X, n.Y)
	}
	if err := n.Validate(); err != nil {
		t.Errorf("link node invalid: %v", err)
	}

	s.Description = "A dark fantasy RPG"
	if got := s.LinkNode(geom.Point{}).Description; got != s.Description {
		t.Errorf("Description = %q, want payload description", got)
	}
}

func TestFind(t *testing.T) {
	catalog := []Summary{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	if s, ok := Find(catalog, "b"); !ok || s.Title != "B" {
		t.Errorf("Find(b) = %v, %v", s, ok)
	}
	if _, ok := Find(catalog, "zzz"); ok {
		t.Error("Find(zzz) should miss")
	}
}
