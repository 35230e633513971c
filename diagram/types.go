// Package diagram holds the declarative schematic model: boxes, text blocks,
// lines and regions in region-local coordinates, plus the builder that checks
// and freezes them into a Document.
package diagram

import (
	"math"

	"schematic/core"
	"schematic/geometry"
)

// DefaultLineHeight is the line pitch, as a multiple of the font size, used when
// a text block does not set one.
const DefaultLineHeight = 1.2

// capHeight approximates the height of capitals as a fraction of the font size.
const capHeight = 0.7

// Node is a child of a Region: Box, Text, Line or Region.
type Node interface {
	isNode()
}

// Box is a stroked rectangle, optionally labelled.
type Box struct {
	// Name makes the box addressable by anchors. Optional.
	Name   string
	Origin core.Point
	Width  float64
	Height float64
	Stroke core.Stroke
	// Labels are positioned relative to the box's top-left corner.
	Labels []Text
}

func (Box) isNode() {}

// IsSeparator reports whether the box is a zero-height rule.
func (b Box) IsSeparator() bool {
	return b.Height == 0
}

// Text is a label or text block. Origin is the left end of the first
// baseline; with AlignBox or AlignPage only its y coordinate is used.
type Text struct {
	Text       string
	Origin     core.Point
	Font       core.Font
	Color      core.Color
	Align      core.Align
	LineHeight float64
	// Middle centers the block vertically in its containing box or region and
	// ignores Origin.Y. Text in a stacked region keeps its slot.
	Middle bool
}

func (Text) isNode() {}

// Pitch returns the distance between consecutive baselines.
func (t Text) Pitch() float64 {
	if t.LineHeight > 0 {
		return t.LineHeight
	}
	return DefaultLineHeight * t.Font.Size
}

// Lines splits the block into its baselines, offsets measured down the page.
func (t Text) Lines() []geometry.Line {
	return geometry.WrapFixedLines(t.Text, t.Pitch())
}

// Extent is the vertical space the block takes when stacked.
func (t Text) Extent() float64 {
	return float64(len(geometry.SplitLines(t.Text))) * t.Pitch()
}

// MiddleOffset returns the distance from the top of a container of the given
// height to the first baseline that centers the block's capitals.
func (t Text) MiddleOffset(height float64) float64 {
	n := len(geometry.SplitLines(t.Text))
	block := float64(n-1)*t.Pitch() + capHeight*t.Font.Size
	return (height-block)/2 + capHeight*t.Font.Size
}

// ArrowHead describes the two strokes drawn at the end of an arrow.
type ArrowHead struct {
	Length float64
	// Spread is the angle, in radians, between each stroke and the shaft.
	Spread float64
}

// DefaultArrowHead is a 6pt head with strokes 30 degrees off the shaft.
var DefaultArrowHead = ArrowHead{Length: 6, Spread: math.Pi / 6}

// Line is a straight connector inside a region, in local coordinates.
// With a Head it is drawn as an arrow pointing at End.
type Line struct {
	Start  core.Point
	End    core.Point
	Stroke core.Stroke
	Head   *ArrowHead
}

func (Line) isNode() {}

// Flow selects how a region positions its children.
type Flow int

const (
	// FlowFree places every child at its own local origin.
	FlowFree Flow = iota
	// FlowStack stacks children down the region, Gap apart, keeping their
	// local x.
	FlowStack
	// FlowRow lines boxes and regions up side by side, centered horizontally,
	// Gap apart, keeping their local y.
	FlowRow
)

// String returns the flow name used in document files.
func (f Flow) String() string {
	switch f {
	case FlowStack:
		return "stack"
	case FlowRow:
		return "row"
	default:
		return "free"
	}
}

// Sizing tells whether a region's height is declared or derived.
type Sizing int

const (
	// SizeFixed uses the declared Height.
	SizeFixed Sizing = iota
	// SizeAuto derives the height from the children.
	SizeAuto
)

// Region is a named rectangular container with its own local frame.
type Region struct {
	Name   string
	Origin core.Point
	Width  float64
	Height float64
	Sizing Sizing
	Flow   Flow
	Gap    float64
	// Border strokes the region's outline when set.
	Border *core.Stroke
	// Title is placed like a free child but never takes part in stacking.
	Title    *Text
	Children []Node
}

func (Region) isNode() {}

// Endpoint is one end of a Connector: an anchor reference such as
// "deviceBody.bottom-center", or an absolute point when Anchor is empty.
type Endpoint struct {
	Anchor string
	Point  core.Point
}

// AnchorRef returns an endpoint bound to a named anchor.
func AnchorRef(ref string) Endpoint {
	return Endpoint{Anchor: ref}
}

// At returns an endpoint fixed at an absolute page point.
func At(x, y float64) Endpoint {
	return Endpoint{Point: core.Point{X: x, Y: y}}
}

// IsAnchor reports whether the endpoint is resolved by name.
func (e Endpoint) IsAnchor() bool {
	return e.Anchor != ""
}

// String returns the anchor reference or the point.
func (e Endpoint) String() string {
	if e.IsAnchor() {
		return e.Anchor
	}
	return e.Point.String()
}

// ArrowStyle is the stroke and head used for a connector.
type ArrowStyle struct {
	Stroke core.Stroke
	// Head is nil for a plain connector line.
	Head *ArrowHead
}

// DefaultArrowStyle is a 1pt black arrow with the default head.
func DefaultArrowStyle() ArrowStyle {
	head := DefaultArrowHead
	return ArrowStyle{Stroke: core.DefaultStroke, Head: &head}
}

// Connector is a document-level line or arrow between two endpoints, drawn
// after every region.
type Connector struct {
	From  Endpoint
	To    Endpoint
	Style ArrowStyle
}

// Document is a frozen schematic page. It is created by Builder.Build and never
// changes afterwards; accessors hand out copies.
type Document struct {
	width       float64
	height      float64
	orientation core.Orientation
	title       *Text
	regions     []Region
	connectors  []Connector
}

// Width returns the page width in points.
func (d *Document) Width() float64 { return d.width }

// Height returns the page height in points.
func (d *Document) Height() float64 { return d.height }

// Orientation returns the y axis direction of the document frame.
func (d *Document) Orientation() core.Orientation { return d.orientation }

// Title returns the page title, if any.
func (d *Document) Title() (Text, bool) {
	if d.title == nil {
		return Text{}, false
	}
	return *d.title, true
}

// Regions returns a deep copy of the top-level regions in declaration order.
func (d *Document) Regions() []Region {
	out := make([]Region, len(d.regions))
	for i, r := range d.regions {
		out[i] = cloneRegion(r)
	}
	return out
}

// Connectors returns a copy of the document-level connectors.
func (d *Document) Connectors() []Connector {
	out := make([]Connector, len(d.connectors))
	for i, c := range d.connectors {
		out[i] = cloneConnector(c)
	}
	return out
}

func cloneHead(h *ArrowHead) *ArrowHead {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

func cloneConnector(c Connector) Connector {
	c.Style.Stroke = c.Style.Stroke.Clone()
	c.Style.Head = cloneHead(c.Style.Head)
	return c
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case Box:
		v.Stroke = v.Stroke.Clone()
		if v.Labels != nil {
			v.Labels = append([]Text(nil), v.Labels...)
		}
		return v
	case Line:
		v.Stroke = v.Stroke.Clone()
		v.Head = cloneHead(v.Head)
		return v
	case Region:
		return cloneRegion(v)
	default:
		return n
	}
}

func cloneRegion(r Region) Region {
	out := r
	if r.Border != nil {
		b := r.Border.Clone()
		out.Border = &b
	}
	if r.Title != nil {
		t := *r.Title
		out.Title = &t
	}
	out.Children = make([]Node, len(r.Children))
	for i, child := range r.Children {
		out.Children[i] = cloneNode(child)
	}
	return out
}
