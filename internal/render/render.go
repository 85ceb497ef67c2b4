// Package render draws a canvas scene as a self-contained HTML page with an
// inline SVG: nodes with kind-colored headers and pins, then wires with their
// per-variant strokes.
package render

import (
	"bytes"
	"errors"
	"html/template"
	"sort"
	"strconv"
	"time"

	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/viewport"
	"github.com/matsen/blueprint/internal/wire"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("canvas").Funcs(template.FuncMap{
		"num":  num,
		"secs": secs,
	}).Parse(htmlTemplate))
}

// Scene is everything needed to draw one frame. Wire segments are already
// in screen space; nodes are in world space and drawn under Viewport.
type Scene struct {
	GraphID  string
	Viewport viewport.State
	Nodes    []graph.Node
	Wires    []wire.Segment
	Pending  *wire.Segment
	Active   map[string]bool
	Selected string
	EditMode bool
}

// Options configures HTML generation.
type Options struct {
	Width  float64
	Height float64
}

// DefaultOptions returns a 1280x800 canvas.
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 800}
}

// HTML renders the scene.
func HTML(s Scene, opts Options) (string, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", errors.New("canvas size must be positive")
	}
	if s.Viewport.Zoom <= 0 {
		s.Viewport.Zoom = 1
	}

	data := templateData{
		Title:    s.GraphID,
		Width:    opts.Width,
		Height:   opts.Height,
		View:     s.Viewport,
		Nodes:    nodeViews(s),
		Wires:    orderWires(s.Wires),
		Pending:  s.Pending,
		EditMode: s.EditMode,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title    string
	Width    float64
	Height   float64
	View     viewport.State
	Nodes    []nodeView
	Wires    []wire.Segment
	Pending  *wire.Segment
	EditMode bool
}

type nodeView struct {
	ID          string
	Title       string
	Subtitle    string
	X, Y        float64
	W, H        float64
	SubtitleY   float64
	HeaderColor string
	Comment     bool
	Active      bool
	Selected    bool
	Pins        []pinView
}

type pinView struct {
	Label string
	X, Y  float64 // relative to the node
	Data  bool
	Out   bool
}

func nodeViews(s Scene) []nodeView {
	views := make([]nodeView, 0, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		k := graph.KindOf(n)
		w, h := graph.Size(n)
		v := nodeView{
			ID:          n.ID,
			Title:       n.Title,
			Subtitle:    n.Subtitle,
			X:           n.X,
			Y:           n.Y,
			W:           w,
			H:           h,
			HeaderColor: k.HeaderColor(),
			Comment:     k.Type() == graph.TypeComment,
			Active:      s.Active[n.ID],
			Selected:    s.Selected == n.ID,
		}
		v.SubtitleY = h - 8
		if v.Comment {
			v.SubtitleY = 38
		}
		for _, p := range graph.AllPins(n) {
			at := wire.Anchor(n, p.Name, p.Direction)
			v.Pins = append(v.Pins, pinView{
				Label: p.Label,
				X:     at.X - n.X,
				Y:     at.Y - n.Y,
				Data:  p.IsData(),
				Out:   p.Direction == graph.Out,
			})
		}
		views = append(views, v)
	}
	return views
}

// orderWires draws raised (live or debug) wires last so they sit on top.
func orderWires(segs []wire.Segment) []wire.Segment {
	out := append([]wire.Segment(nil), segs...)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Stroke.Raised && out[j].Stroke.Raised
	})
	return out
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func secs(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
