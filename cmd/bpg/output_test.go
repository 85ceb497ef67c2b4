package main

import "testing"

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"Joined Game Studio A", 10, "Joined ..."},
		{"Événement", 5, "Év..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	for _, in := range []string{"default-graph", "default_graph", "DEFAULT-GRAPH"} {
		if got := normalizeKey(in); got != "default_graph" {
			t.Errorf("normalizeKey(%q) = %q", in, got)
		}
	}
	if got := displayKey("view_width"); got != "view-width" {
		t.Errorf("displayKey = %q", got)
	}
}
