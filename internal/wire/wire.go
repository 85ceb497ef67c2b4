// Package wire computes the curves drawn between connected pins and the
// stroke treatment for each. Everything here is derived from the graph and
// viewport; nothing is stored.
package wire

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/matsen/blueprint/internal/geom"
	"github.com/matsen/blueprint/internal/graph"
)

// MinControlOffset is the smallest horizontal control-point offset, in
// screen units, so short wires still leave their pins horizontally.
const MinControlOffset = 80

// Curve is a cubic Bézier from P0 to P3.
type Curve struct {
	P0, C1, C2, P3 geom.Point
}

// NewCurve builds the S-curve between two screen points. Control points are
// offset horizontally by max(|Δx|/2, 80) and keep their endpoint's Y, so the
// tangent is horizontal at both ends.
func NewCurve(start, end geom.Point) Curve {
	offset := math.Max(math.Abs(end.X-start.X)*0.5, MinControlOffset)
	return Curve{
		P0: start,
		C1: geom.Pt(start.X+offset, start.Y),
		C2: geom.Pt(end.X-offset, end.Y),
		P3: end,
	}
}

// At evaluates the curve at t in [0,1].
func (c Curve) At(t float64) geom.Point {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geom.Pt(
		a*c.P0.X+b*c.C1.X+cc*c.C2.X+d*c.P3.X,
		a*c.P0.Y+b*c.C1.Y+cc*c.C2.Y+d*c.P3.Y,
	)
}

// SVG returns the path data, e.g. "M 0 0 C 80 0, 20 50, 100 50".
func (c Curve) SVG() string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(c.P0.X), num(c.P0.Y),
		num(c.C1.X), num(c.C1.Y),
		num(c.C2.X), num(c.C2.Y),
		num(c.P3.X), num(c.P3.Y))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Variant flags how a wire should be drawn.
type Variant struct {
	Live    bool `json:"live"`    // source node is active in the simulation
	Debug   bool `json:"debug"`   // source node is selected outside edit mode
	Data    bool `json:"data"`    // carries a value rather than control flow
	Project bool `json:"project"` // leaves a project-link node
}

// Stroke is the presentational treatment of a wire.
type Stroke struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Dash    string  `json:"dash,omitempty"`
	// Glow is the blurred underlay color; empty means none.
	Glow string `json:"glow,omitempty"`
	// Marker is the period of the traveling dot; zero means no dot.
	Marker time.Duration `json:"marker,omitempty"`
	Raised bool          `json:"raised,omitempty"`
}

// Wire colors.
const (
	colorExec     = "#ffffff"
	colorData     = "#4caf50"
	colorDataLive = "#81c784"
	colorProject  = "#ff0000"
	colorDebug    = "#ffd700"
)

// StrokeFor resolves the stroke of a variant.
func StrokeFor(v Variant) Stroke {
	base := colorExec
	switch {
	case v.Data:
		base = colorData
	case v.Project:
		base = colorProject
	}
	active := colorExec
	if v.Data {
		active = colorDataLive
	}

	s := Stroke{Color: base, Width: 2, Opacity: 0.4}
	if v.Data {
		s.Opacity = 0.6
	}
	switch {
	case v.Live:
		s.Color = active
		s.Glow = active
	case v.Debug:
		s.Color = colorDebug
		s.Glow = colorDebug
	}
	if v.Live || v.Debug {
		s.Width = 2.5
		s.Opacity = 1
		s.Raised = true
	}
	if v.Debug || (v.Live && v.Data) {
		s.Dash = "8, 8"
	}
	if v.Live {
		s.Marker = 1200 * time.Millisecond
		if v.Data {
			s.Marker = 2 * time.Second
		}
	}
	return s
}

// Segment is one drawable wire.
type Segment struct {
	ConnectionID string  `json:"connectionId,omitempty"`
	Curve        Curve   `json:"-"`
	Path         string  `json:"path"`
	Variant      Variant `json:"variant"`
	Stroke       Stroke  `json:"stroke"`
}

// Transform maps world points to screen points.
type Transform interface {
	WorldToScreen(geom.Point) geom.Point
}

// Options carries the per-frame state that decides wire variants.
type Options struct {
	Active   map[string]bool // ids reached by the simulation; nil when not simulating
	Selected string
	EditMode bool
}

// Layout resolves every connection into a screen-space segment. Connections
// whose endpoints no longer exist are skipped.
func Layout(nodes []graph.Node, conns []graph.Connection, t Transform, opts Options) []Segment {
	byID := make(map[string]*graph.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	segs := make([]Segment, 0, len(conns))
	for _, c := range conns {
		from, ok := byID[c.From]
		if !ok {
			continue
		}
		to, ok := byID[c.To]
		if !ok {
			continue
		}
		start := t.WorldToScreen(OutputAnchor(from, c.FromPin))
		end := t.WorldToScreen(InputAnchor(to, c.ToPin))

		v := Variant{
			Live:    opts.Active[c.From],
			Debug:   !opts.EditMode && opts.Selected != "" && opts.Selected == c.From,
			Data:    c.IsData,
			Project: from.Type == graph.TypeProject,
		}
		curve := NewCurve(start, end)
		segs = append(segs, Segment{
			ConnectionID: c.ID,
			Curve:        curve,
			Path:         curve.SVG(),
			Variant:      v,
			Stroke:       StrokeFor(v),
		})
	}
	return segs
}

// Pending draws the wire being dragged out of a pin. Both points are world
// coordinates; the origin is always treated as the curve's start.
func Pending(origin, pointer geom.Point, t Transform) Segment {
	curve := NewCurve(t.WorldToScreen(origin), t.WorldToScreen(pointer))
	v := Variant{Live: true}
	return Segment{
		Curve:   curve,
		Path:    curve.SVG(),
		Variant: v,
		Stroke:  StrokeFor(v),
	}
}
