package interact

import (
	"encoding/json"
	"fmt"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
)

// EventType identifies an input event.
type EventType string

// Input events. The string values are used in replay scripts.
const (
	PointerDown    EventType = "pointerdown"
	PointerMove    EventType = "pointermove"
	PointerUp      EventType = "pointerup"
	PointerLeave   EventType = "pointerleave"
	Wheel          EventType = "wheel"
	TouchStart     EventType = "touchstart"
	TouchMove      EventType = "touchmove"
	TouchEnd       EventType = "touchend"
	Drop           EventType = "drop"
	DoubleActivate EventType = "dblclick"
)

// Button is a pointer button, numbered as in DOM mouse events.
type Button int

// Pointer buttons.
const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// TargetKind says what part of the canvas an event landed on.
type TargetKind string

// Target kinds. TargetNone asks the controller to hit-test the event point.
const (
	TargetNone       TargetKind = ""
	TargetBackground TargetKind = "background"
	TargetNode       TargetKind = "node"
	TargetPin        TargetKind = "pin"
	TargetResize     TargetKind = "resize"
)

// Target is the element under the pointer.
type Target struct {
	Kind      TargetKind      `json:"kind,omitempty"`
	NodeID    string          `json:"nodeId,omitempty"`
	Pin       string          `json:"pin,omitempty"`
	Direction graph.Direction `json:"direction,omitempty"`
}

// PinRef returns the pin the target points at.
func (t Target) PinRef() graph.PinRef {
	return graph.PinRef{NodeID: t.NodeID, Pin: t.Pin, Direction: t.Direction}
}

// Event is one input event in screen coordinates relative to the canvas.
type Event struct {
	Type   EventType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Button Button    `json:"button,omitempty"`
	Target Target    `json:"target,omitzero"`
	DeltaY float64   `json:"deltaY,omitempty"`
	// Touches lists the active touch points for touch events.
	Touches []geom.Point `json:"touches,omitempty"`
	// Payload is the serialized project summary of a drop.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Pos returns the event point.
func (e Event) Pos() geom.Point {
	return geom.Pt(e.X, e.Y)
}

// Validate rejects events a controller cannot interpret.
func (e Event) Validate() error {
	switch e.Type {
	case PointerDown, PointerMove, PointerUp, PointerLeave, Wheel,
		TouchStart, TouchMove, TouchEnd, Drop, DoubleActivate:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEvent, e.Type)
	}
	if !e.Pos().IsFinite() {
		return fmt.Errorf("%w: non-finite position", ErrInvalidEvent)
	}
	return nil
}
