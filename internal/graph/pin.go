package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is the side of a node a pin sits on.
type Direction string

// Pin directions.
const (
	In  Direction = "in"
	Out Direction = "out"
)

// Pin names used by the built-in kinds.
const (
	PinInExec   = "in_exec"
	PinInData   = "in_data"
	PinOutExec  = "out_exec"
	PinOutData  = "out_data"
	PinOutDelta = "out_delta"

	thenPinPrefix = "out_then_"
)

// Pin is a named connection point on a node.
type Pin struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Label     string    `json:"label,omitempty"`
}

// IsData reports whether the pin carries a value rather than control flow.
func (p Pin) IsData() bool {
	return IsDataPinName(p.Name)
}

// IsDataPinName reports whether a pin name signals a data or delta payload.
func IsDataPinName(name string) bool {
	return strings.Contains(name, "data") || strings.Contains(name, "delta")
}

// ThenPin returns the name of the i-th sequence output.
func ThenPin(i int) string {
	return thenPinPrefix + strconv.Itoa(i)
}

// ThenIndex extracts the index from a sequence output name.
func ThenIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, thenPinPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// PinRef names one pin on one node.
type PinRef struct {
	NodeID    string    `json:"nodeId"`
	Pin       string    `json:"pin"`
	Direction Direction `json:"direction"`
}

func (r PinRef) String() string {
	return fmt.Sprintf("%s.%s(%s)", r.NodeID, r.Pin, r.Direction)
}

// DirectionOf infers a pin's direction from its name prefix.
func DirectionOf(name string) (Direction, bool) {
	switch {
	case strings.HasPrefix(name, "in_"):
		return In, true
	case strings.HasPrefix(name, "out_"):
		return Out, true
	}
	return "", false
}
