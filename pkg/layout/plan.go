package layout

import "fmt"

// Glyph geometry shared by the layout engine and the symbol renderer, in
// diagram units.
const (
	LCPRadius     = 0.35
	NAPRadius     = 0.3
	ClosureWidth  = 0.8
	ClosureHeight = 0.5
	TickLength    = 0.45
)

// Plan is the complete geometry of one diagram. A plan with no LCPs is empty:
// it has no closure, no connectors and zero bounds.
type Plan struct {
	Config     Config         `json:"config" yaml:"config"`
	Closure    *Closure       `json:"closure,omitempty" yaml:"closure,omitempty"`
	LCPs       []LCPPlacement `json:"lcps" yaml:"lcps"`
	Connectors []Connector    `json:"connectors" yaml:"connectors"`
	Rows       int            `json:"rows" yaml:"rows"`
	Bounds     Rect           `json:"bounds" yaml:"bounds"`
}

// Closure is the splice closure fed by the OLT.
type Closure struct {
	Position   Point  `json:"position" yaml:"position"`
	Box        Rect   `json:"box" yaml:"box"`
	Feeder     Anchor `json:"feeder" yaml:"feeder"`
	Annotation Anchor `json:"annotation" yaml:"annotation"`
}

// LCPPlacement positions one LCP and its NAPs.
type LCPPlacement struct {
	ID       string         `json:"id" yaml:"id"`
	Index    int            `json:"index" yaml:"index"`
	Row      int            `json:"row" yaml:"row"`
	Column   int            `json:"column" yaml:"column"`
	Position Point          `json:"position" yaml:"position"`
	Slot     Rect           `json:"slot" yaml:"slot"`
	Labels   Labels         `json:"labels" yaml:"labels"`
	NAPs     []NAPPlacement `json:"naps" yaml:"naps"`
}

// NAPPlacement positions one NAP on its LCP's row.
type NAPPlacement struct {
	ID       string `json:"id" yaml:"id"`
	Index    int    `json:"index" yaml:"index"`
	Position Point  `json:"position" yaml:"position"`
	Labels   Labels `json:"labels" yaml:"labels"`
}

// Labels holds the text anchors around a node symbol.
type Labels struct {
	ID        Anchor `json:"id" yaml:"id"`
	Fibers    Anchor `json:"fibers" yaml:"fibers"`
	Span      Anchor `json:"span" yaml:"span"`
	CoLocator Anchor `json:"co_locator" yaml:"co_locator"`
	Landmark  Anchor `json:"landmark" yaml:"landmark"`
}

// Anchor places a block of text: At is the reference point, H and V say
// which edge of the text block touches it.
type Anchor struct {
	At Point  `json:"at" yaml:"at"`
	H  HAlign `json:"h" yaml:"h"`
	V  VAlign `json:"v" yaml:"v"`
}

type HAlign int

const (
	AlignCenter HAlign = iota
	AlignLeft
	AlignRight
)

func (a HAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

func (a HAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *HAlign) UnmarshalText(b []byte) error {
	switch string(b) {
	case "center":
		*a = AlignCenter
	case "left":
		*a = AlignLeft
	case "right":
		*a = AlignRight
	default:
		return fmt.Errorf("unknown horizontal alignment %q", b)
	}
	return nil
}

type VAlign int

const (
	AlignMiddle VAlign = iota
	AlignTop
	AlignBottom
)

func (a VAlign) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	default:
		return "middle"
	}
}

func (a VAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *VAlign) UnmarshalText(b []byte) error {
	switch string(b) {
	case "middle":
		*a = AlignMiddle
	case "top":
		*a = AlignTop
	case "bottom":
		*a = AlignBottom
	default:
		return fmt.Errorf("unknown vertical alignment %q", b)
	}
	return nil
}

// ConnectorKind classifies a straight connector.
type ConnectorKind int

const (
	// Feeder runs from the closure to the first LCP of a row.
	Feeder ConnectorKind = iota
	// Backbone runs along a row from an LCP past all of its NAPs.
	Backbone
	// Tick marks a NAP's drop off the backbone.
	Tick
)

func (k ConnectorKind) String() string {
	switch k {
	case Feeder:
		return "feeder"
	case Backbone:
		return "backbone"
	case Tick:
		return "tick"
	default:
		return fmt.Sprintf("ConnectorKind(%d)", int(k))
	}
}

func (k ConnectorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ConnectorKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "feeder":
		*k = Feeder
	case "backbone":
		*k = Backbone
	case "tick":
		*k = Tick
	default:
		return fmt.Errorf("unknown connector kind %q", b)
	}
	return nil
}

// Connector is a straight segment. LCP and NAP are indexes of the node it
// leads to; NAP is -1 for feeders and backbones.
type Connector struct {
	Kind ConnectorKind `json:"kind" yaml:"kind"`
	From Point         `json:"from" yaml:"from"`
	To   Point         `json:"to" yaml:"to"`
	LCP  int           `json:"lcp" yaml:"lcp"`
	NAP  int           `json:"nap" yaml:"nap"`
}

// IsEmpty reports whether the plan has nothing to draw.
func (p *Plan) IsEmpty() bool { return p == nil || len(p.LCPs) == 0 }

func (p *Plan) Width() float64  { return p.Bounds.Width() }
func (p *Plan) Height() float64 { return p.Bounds.Height() }

// ElementKind identifies what an [Element] is.
type ElementKind int

const (
	KindClosure ElementKind = iota
	KindLCP
	KindNAP
)

func (k ElementKind) String() string {
	switch k {
	case KindClosure:
		return "closure"
	case KindLCP:
		return "lcp"
	default:
		return "nap"
	}
}

func (k ElementKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Key identifies a positioned element: the zero Key is the closure, an LCP
// key has only LCP set, and a NAP key names both its LCP and itself.
type Key struct {
	LCP string `json:"lcp,omitempty" yaml:"lcp,omitempty"`
	NAP string `json:"nap,omitempty" yaml:"nap,omitempty"`
}

func (k Key) Kind() ElementKind {
	switch {
	case k.NAP != "":
		return KindNAP
	case k.LCP != "":
		return KindLCP
	default:
		return KindClosure
	}
}

func (k Key) String() string {
	switch k.Kind() {
	case KindClosure:
		return "closure"
	case KindLCP:
		return k.LCP
	default:
		return k.LCP + "/" + k.NAP
	}
}

// Element is one entry of the flattened plan.
type Element struct {
	Key      Key         `json:"key" yaml:"key"`
	Kind     ElementKind `json:"kind" yaml:"kind"`
	Position Point       `json:"position" yaml:"position"`
}

// Elements flattens the plan in draw order: the closure, then every LCP
// followed by its NAPs.
func (p *Plan) Elements() []Element {
	if p.IsEmpty() {
		return nil
	}
	out := make([]Element, 0, 1+len(p.LCPs)+p.napCount())
	out = append(out, Element{Kind: KindClosure, Position: p.Closure.Position})
	for _, l := range p.LCPs {
		out = append(out, Element{Key: Key{LCP: l.ID}, Kind: KindLCP, Position: l.Position})
		for _, n := range l.NAPs {
			out = append(out, Element{Key: Key{LCP: l.ID, NAP: n.ID}, Kind: KindNAP, Position: n.Position})
		}
	}
	return out
}

// Position looks up an element by key. Duplicate ids resolve to the first
// occurrence in draw order.
func (p *Plan) Position(k Key) (Point, bool) {
	if p.IsEmpty() {
		return Point{}, false
	}
	if k.Kind() == KindClosure {
		return p.Closure.Position, true
	}
	for _, l := range p.LCPs {
		if l.ID != k.LCP {
			continue
		}
		if k.NAP == "" {
			return l.Position, true
		}
		for _, n := range l.NAPs {
			if n.ID == k.NAP {
				return n.Position, true
			}
		}
	}
	return Point{}, false
}

// Row returns the LCPs placed in row r, in column order.
func (p *Plan) Row(r int) []LCPPlacement {
	var out []LCPPlacement
	for _, l := range p.LCPs {
		if l.Row == r {
			out = append(out, l)
		}
	}
	return out
}

// ConnectorsOf returns the connectors of the given kind.
func (p *Plan) ConnectorsOf(kind ConnectorKind) []Connector {
	var out []Connector
	for _, c := range p.Connectors {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (p *Plan) napCount() int {
	n := 0
	for _, l := range p.LCPs {
		n += len(l.NAPs)
	}
	return n
}
