package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/blueprint/internal/project"
)

func TestReadJSONLFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	items, err := ReadJSONLFile[project.Summary](path)
	if err != nil {
		t.Fatalf("ReadJSONLFile() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ReadJSONLFile() returned %d items, want 0", len(items))
	}
}

func TestReadJSONLFile_NonExistentFile(t *testing.T) {
	items, err := ReadJSONLFile[project.Summary]("/nonexistent/path/projects.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONLFile() error = %v (should return nil for nonexistent file)", err)
	}
	if len(items) != 0 {
		t.Errorf("ReadJSONLFile() returned %v, want empty", items)
	}
}

func TestReadJSONLFile_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.jsonl")
	content := `{"id":"proj1","title":"Elden Echoes"}

{"id":"proj2","title":"Neon Strike"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	items, err := ReadJSONLFile[project.Summary](path)
	if err != nil {
		t.Fatalf("ReadJSONLFile() error = %v", err)
	}
	if len(items) != 2 || items[1].Title != "Neon Strike" {
		t.Errorf("ReadJSONLFile() = %+v", items)
	}
}

func TestDecodeJSONL_ReportsLine(t *testing.T) {
	input := "{\"id\":\"a\"}\n{broken\n"
	err := DecodeJSONL(strings.NewReader(input), func(int, project.Summary) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeJSONL() error = %v, want line 2", err)
	}
}

func TestDecodeJSONL_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	var seen []int
	input := "{}\n{}\n{}\n"
	err := DecodeJSONL(strings.NewReader(input), func(line int, _ map[string]any) error {
		seen = append(seen, line)
		if line == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("DecodeJSONL() error = %v, want stop", err)
	}
	if len(seen) != 2 {
		t.Errorf("callback saw lines %v, want [1 2]", seen)
	}
}

func TestWriteJSONL_RoundTrip(t *testing.T) {
	in := []project.Summary{{ID: "proj1", Title: "A"}, {ID: "proj2", Title: "B", Tags: []string{"MAIN"}}}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, in); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("wrote %d lines, want 2", n)
	}

	var out []project.Summary
	err := DecodeJSONL(&buf, func(_ int, s project.Summary) error {
		out = append(out, s)
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeJSONL() error = %v", err)
	}
	if len(out) != 2 || out[1].Tags[0] != "MAIN" {
		t.Errorf("round trip = %+v", out)
	}
}
