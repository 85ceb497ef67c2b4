package main

import (
	"testing"

	"github.com/matsen/blueprint/internal/graph"
)

func TestParsePinRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    graph.PinRef
		wantErr bool
	}{
		{name: "exec output", in: "node1.out_exec", want: graph.PinRef{NodeID: "node1", Pin: "out_exec"}},
		{name: "sequence pin", in: "seq.out_then_2", want: graph.PinRef{NodeID: "seq", Pin: "out_then_2"}},
		{name: "dotted node id", in: "a.b.in_data", want: graph.PinRef{NodeID: "a.b", Pin: "in_data"}},
		{name: "no dot", in: "node1", wantErr: true},
		{name: "empty node", in: ".out_exec", wantErr: true},
		{name: "empty pin", in: "node1.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePinRef(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePinRef(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePinRef(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parsePinRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
