package graph

import "strconv"

// Kind is the behavior attached to a node type: which pins it shows, how its
// header is colored, how wide its wire anchors sit, and how it seeds the
// reachability simulation. KindOf is the only place that switches on type
// strings.
type Kind interface {
	Type() Type
	Inputs(n *Node) []Pin
	Outputs(n *Node) []Pin
	HeaderColor() string
	// AnchorWidth is the width used to place output pin anchors.
	AnchorWidth() float64
	DefaultSize(n *Node) (w, h float64)
	IsEntry() bool
	Resizable() bool
	Template() Template
}

// Template is the starting content of a freshly spawned node.
type Template struct {
	Title        string
	Subtitle     string
	Description  string
	Category     Category
	Width        float64
	Height       float64
	SequencePins int
}

// Header colors.
const (
	ColorComment     = "#333"
	ColorEvent       = "#b61d1d"
	ColorVariableGet = "#2d6a8e"
	ColorVariableSet = "#4a8e2d"
	ColorProject     = "#ff9600"
	ColorSequence    = "#1a1a1a"
	ColorFunction    = "#1b4d81"
)

// Default anchor width for kinds that don't override it.
const defaultAnchorWidth = 280

// Row height shared by pin rows; the sequence pin spacing uses the same step.
const pinRowHeight = 26

var (
	execIn  = Pin{Name: PinInExec, Direction: In, Label: "Exec"}
	execOut = Pin{Name: PinOutExec, Direction: Out, Label: "Then"}
)

var kinds = map[Type]Kind{
	TypeEvent:       eventKind{typ: TypeEvent},
	TypeTick:        tickKind{eventKind{typ: TypeTick}},
	TypeBeginPlay:   beginPlayKind{eventKind{typ: TypeBeginPlay}},
	TypeFunction:    functionKind{},
	TypeVariableGet: variableGetKind{},
	TypeVariableSet: variableSetKind{},
	TypeComment:     commentKind{},
	TypeSequence:    sequenceKind{},
	TypeProject:     projectKind{},
}

// KindOf returns the kind for a node. Unknown types fall back on the node's
// category, then on Function.
func KindOf(n *Node) Kind {
	if k, ok := kinds[n.Type]; ok {
		return k
	}
	switch n.Category {
	case CategoryEvent:
		return kinds[TypeEvent]
	case CategoryVariable:
		return kinds[TypeVariableGet]
	}
	return kinds[TypeFunction]
}

// KindFor returns the kind registered for a type.
func KindFor(t Type) (Kind, bool) {
	k, ok := kinds[t]
	return k, ok
}

// Size returns the node's rendered size, using the explicit size when set.
func Size(n *Node) (w, h float64) {
	w, h = KindOf(n).DefaultSize(n)
	if n.Width > 0 {
		w = n.Width
	}
	if n.Height > 0 {
		h = n.Height
	}
	return w, h
}

// AllPins returns inputs followed by outputs.
func AllPins(n *Node) []Pin {
	k := KindOf(n)
	return append(k.Inputs(n), k.Outputs(n)...)
}

// FindPin looks up a pin by name on a node.
func FindPin(n *Node, name string) (Pin, bool) {
	for _, p := range AllPins(n) {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// IsEntry reports whether a node seeds the reachability simulation.
func IsEntry(n *Node) bool {
	return KindOf(n).IsEntry() || n.Category == CategoryEvent
}

// eventKind covers custom events; tick and begin-play embed it.
type eventKind struct{ typ Type }

func (k eventKind) Type() Type                         { return k.typ }
func (eventKind) Inputs(*Node) []Pin                   { return nil }
func (eventKind) Outputs(*Node) []Pin                  { return []Pin{execOut} }
func (eventKind) HeaderColor() string                  { return ColorEvent }
func (eventKind) AnchorWidth() float64                 { return defaultAnchorWidth }
func (eventKind) DefaultSize(*Node) (float64, float64) { return 280, 110 }
func (eventKind) IsEntry() bool                        { return true }
func (eventKind) Resizable() bool                      { return false }
func (eventKind) Template() Template {
	return Template{
		Title:       "New Event",
		Subtitle:    string(CategoryEvent),
		Description: "Double click to edit details",
		Category:    CategoryEvent,
	}
}

type tickKind struct{ eventKind }

func (tickKind) Outputs(*Node) []Pin {
	return []Pin{execOut, {Name: PinOutDelta, Direction: Out, Label: "Delta Seconds"}}
}

func (tickKind) Template() Template {
	return Template{
		Title:       "Event Tick",
		Subtitle:    "Continuous Logic",
		Description: "Executed every frame.",
		Category:    CategoryEvent,
	}
}

type beginPlayKind struct{ eventKind }

func (beginPlayKind) Template() Template {
	return Template{
		Title:       "Event BeginPlay",
		Subtitle:    "Entry Point",
		Description: "Executed when game starts.",
		Category:    CategoryEvent,
	}
}

type functionKind struct{}

func (functionKind) Type() Type { return TypeFunction }
func (functionKind) Inputs(*Node) []Pin {
	return []Pin{execIn, {Name: PinInData, Direction: In, Label: "Target"}}
}
func (functionKind) Outputs(*Node) []Pin {
	return []Pin{execOut, {Name: PinOutData, Direction: Out, Label: "Return"}}
}
func (functionKind) HeaderColor() string                  { return ColorFunction }
func (functionKind) AnchorWidth() float64                 { return defaultAnchorWidth }
func (functionKind) DefaultSize(*Node) (float64, float64) { return 280, 130 }
func (functionKind) IsEntry() bool                        { return false }
func (functionKind) Resizable() bool                      { return false }
func (functionKind) Template() Template {
	return Template{
		Title:       "New Function",
		Subtitle:    string(CategoryFunction),
		Description: "Double click to edit details",
		Category:    CategoryFunction,
	}
}

type variableGetKind struct{}

func (variableGetKind) Type() Type { return TypeVariableGet }
func (variableGetKind) Inputs(n *Node) []Pin {
	if n.HasTarget {
		return []Pin{{Name: PinInData, Direction: In, Label: "Target"}}
	}
	return nil
}
func (variableGetKind) Outputs(*Node) []Pin {
	return []Pin{{Name: PinOutData, Direction: Out}}
}
func (variableGetKind) HeaderColor() string                  { return ColorVariableGet }
func (variableGetKind) AnchorWidth() float64                 { return 180 }
func (variableGetKind) DefaultSize(*Node) (float64, float64) { return 180, 80 }
func (variableGetKind) IsEntry() bool                        { return false }
func (variableGetKind) Resizable() bool                      { return false }
func (variableGetKind) Template() Template {
	return Template{
		Title:       "New Variable",
		Subtitle:    string(CategoryVariable),
		Description: "Double click to edit details",
		Category:    CategoryVariable,
	}
}

type variableSetKind struct{}

func (variableSetKind) Type() Type { return TypeVariableSet }
func (variableSetKind) Inputs(*Node) []Pin {
	return []Pin{execIn, {Name: PinInData, Direction: In, Label: "Value"}}
}
func (variableSetKind) Outputs(*Node) []Pin {
	return []Pin{execOut, {Name: PinOutData, Direction: Out}}
}
func (variableSetKind) HeaderColor() string                  { return ColorVariableSet }
func (variableSetKind) AnchorWidth() float64                 { return 220 }
func (variableSetKind) DefaultSize(*Node) (float64, float64) { return 220, 100 }
func (variableSetKind) IsEntry() bool                        { return false }
func (variableSetKind) Resizable() bool                      { return false }
func (variableSetKind) Template() Template {
	return Template{
		Title:       "New Variable",
		Subtitle:    string(CategoryVariable),
		Description: "Double click to edit details",
		Category:    CategoryVariable,
	}
}

type commentKind struct{}

func (commentKind) Type() Type                           { return TypeComment }
func (commentKind) Inputs(*Node) []Pin                   { return nil }
func (commentKind) Outputs(*Node) []Pin                  { return nil }
func (commentKind) HeaderColor() string                  { return ColorComment }
func (commentKind) AnchorWidth() float64                 { return defaultAnchorWidth }
func (commentKind) DefaultSize(*Node) (float64, float64) { return 300, 200 }
func (commentKind) IsEntry() bool                        { return false }
func (commentKind) Resizable() bool                      { return true }
func (commentKind) Template() Template {
	return Template{
		Title:       "Comment",
		Subtitle:    string(CategoryOther),
		Description: "Explain your logic here...",
		Category:    CategoryOther,
		Width:       400,
		Height:      300,
	}
}

type sequenceKind struct{}

func (sequenceKind) Type() Type         { return TypeSequence }
func (sequenceKind) Inputs(*Node) []Pin { return []Pin{execIn} }
func (sequenceKind) Outputs(n *Node) []Pin {
	count := n.Pins()
	pins := make([]Pin, count)
	for i := range pins {
		pins[i] = Pin{Name: ThenPin(i), Direction: Out, Label: "Then " + strconv.Itoa(i)}
	}
	return pins
}
func (sequenceKind) HeaderColor() string  { return ColorSequence }
func (sequenceKind) AnchorWidth() float64 { return 160 }
func (sequenceKind) DefaultSize(n *Node) (float64, float64) {
	return 160, 70 + float64(n.Pins())*pinRowHeight
}
func (sequenceKind) IsEntry() bool   { return false }
func (sequenceKind) Resizable() bool { return false }
func (sequenceKind) Template() Template {
	return Template{
		Title:        "Sequence",
		Subtitle:     "Utility",
		Description:  "Executes outputs in order",
		Category:     CategoryUtility,
		SequencePins: MinSequencePins,
	}
}

type projectKind struct{}

func (projectKind) Type() Type         { return TypeProject }
func (projectKind) Inputs(*Node) []Pin { return []Pin{execIn} }
func (projectKind) Outputs(*Node) []Pin {
	return []Pin{{Name: PinOutData, Direction: Out, Label: "Return"}}
}
func (projectKind) HeaderColor() string                  { return ColorProject }
func (projectKind) AnchorWidth() float64                 { return defaultAnchorWidth }
func (projectKind) DefaultSize(*Node) (float64, float64) { return 280, 160 }
func (projectKind) IsEntry() bool                        { return false }
func (projectKind) Resizable() bool                      { return false }
func (projectKind) Template() Template {
	return Template{
		Title:       "Project Asset",
		Subtitle:    string(CategoryOther),
		Description: "Double click to edit details",
		Category:    CategoryOther,
	}
}
