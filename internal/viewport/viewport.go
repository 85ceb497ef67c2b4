// Package viewport implements the canvas pan/zoom transform.
//
// Screen coordinates are derived from world coordinates as
//
//	screen = (world + pan) * zoom
//
// so panning is expressed in world units and zooming scales around the
// canvas origin. ZoomAt corrects pan so the point under the cursor stays put.
package viewport

import (
	"math"

	"github.com/matsen/blueprint/internal/geom"
)

// Default limits.
const (
	DefaultMinZoom  = 0.3
	DefaultMaxZoom  = 2.0
	DefaultZoomStep = 0.1
)

// Limits bounds the zoom factor and sets the per-notch step.
type Limits struct {
	MinZoom  float64 `yaml:"min_zoom" json:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom" json:"max_zoom"`
	ZoomStep float64 `yaml:"zoom_step" json:"zoom_step"`
}

// DefaultLimits returns the stock zoom range [0.3, 2.0] with 0.1 steps.
func DefaultLimits() Limits {
	return Limits{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, ZoomStep: DefaultZoomStep}
}

// normalized fills unset fields with defaults.
func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MinZoom <= 0 {
		l.MinZoom = d.MinZoom
	}
	if l.MaxZoom <= 0 {
		l.MaxZoom = d.MaxZoom
	}
	if l.MaxZoom < l.MinZoom {
		l.MaxZoom = l.MinZoom
	}
	if l.ZoomStep <= 0 {
		l.ZoomStep = d.ZoomStep
	}
	return l
}

// State is the serializable part of a viewport.
type State struct {
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
	Zoom float64 `json:"zoom"`
}

// Viewport holds the current pan offset and zoom factor.
type Viewport struct {
	State
	limits Limits
}

// New returns a viewport at pan (0,0), zoom 1 (clamped into the limits).
func New(l Limits) *Viewport {
	v := &Viewport{limits: l.normalized()}
	v.Reset()
	return v
}

// Limits returns the active zoom limits.
func (v *Viewport) Limits() Limits {
	return v.limits
}

// Reset returns to the initial pan and zoom.
func (v *Viewport) Reset() {
	v.State = State{Zoom: v.clamp(1)}
}

// WorldToScreen maps a world point to screen space.
func (v *Viewport) WorldToScreen(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X + v.PanX) * v.Zoom,
		Y: (p.Y + v.PanY) * v.Zoom,
	}
}

// ScreenToWorld maps a screen point to world space.
func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X/v.Zoom - v.PanX,
		Y: p.Y/v.Zoom - v.PanY,
	}
}

// ToWorldDelta converts a screen-space movement into world units.
func (v *Viewport) ToWorldDelta(dx, dy float64) (float64, float64) {
	return dx / v.Zoom, dy / v.Zoom
}

// Pan shifts the view by a screen-space pointer delta. Dividing by zoom
// keeps the content under the pointer at every zoom level.
func (v *Viewport) Pan(dx, dy float64) {
	wx, wy := v.ToWorldDelta(dx, dy)
	v.PanX += wx
	v.PanY += wy
}

// ZoomAt applies one wheel notch at the given screen-space cursor position.
// A positive deltaY (scrolling down) zooms out. Zero deltaY does nothing.
// It reports whether the zoom changed.
func (v *Viewport) ZoomAt(cursor geom.Point, deltaY float64) bool {
	if deltaY == 0 {
		return false
	}
	step := v.limits.ZoomStep
	if deltaY > 0 {
		step = -step
	}
	return v.SetZoomAt(cursor, v.Zoom+step)
}

// SetZoomAt sets an absolute zoom (clamped) keeping cursor fixed.
func (v *Viewport) SetZoomAt(cursor geom.Point, zoom float64) bool {
	newZoom := v.clamp(zoom)
	if newZoom == v.Zoom {
		return false
	}
	v.PanX += cursor.X/newZoom - cursor.X/v.Zoom
	v.PanY += cursor.Y/newZoom - cursor.Y/v.Zoom
	v.Zoom = newZoom
	return true
}

func (v *Viewport) clamp(z float64) float64 {
	// Round away float noise from repeated ±step additions.
	z = math.Round(z*1e9) / 1e9
	return math.Max(v.limits.MinZoom, math.Min(v.limits.MaxZoom, z))
}
