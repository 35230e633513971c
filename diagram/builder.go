package diagram

import (
	"fmt"
	"math"

	"schematic/core"
)

// PageOption configures a Builder.
type PageOption func(*Builder)

// WithOrientation sets the y axis direction of the document frame.
func WithOrientation(o core.Orientation) PageOption {
	return func(b *Builder) {
		b.orientation = o
	}
}

// RegionSpec declares a region; its children are added through the returned
// RegionHandle.
type RegionSpec struct {
	Name   string
	Origin core.Point
	Width  float64
	Height float64
	Sizing Sizing
	Flow   Flow
	Gap    float64
	Border *core.Stroke
	Title  *Text
}

// Builder assembles a Document. Elements may be added in any order: anchor
// references are only checked by Build, so an arrow can name a region that is
// added later.
type Builder struct {
	width       float64
	height      float64
	orientation core.Orientation
	title       *Text
	regions     []*RegionHandle
	connectors  []Connector
}

// NewBuilder starts a document for a page of the given size in points.
func NewBuilder(width, height float64, opts ...PageOption) *Builder {
	b := &Builder{width: width, height: height}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetTitle sets the page title.
func (b *Builder) SetTitle(t Text) *Builder {
	b.title = &t
	return b
}

// AddRegion appends a top-level region and returns its handle.
func (b *Builder) AddRegion(spec RegionSpec) *RegionHandle {
	h := &RegionHandle{spec: spec}
	b.regions = append(b.regions, h)
	return h
}

// AddArrowBetweenAnchors connects two anchor references, e.g.
// "deviceBody.bottom-center" to "sequenceBlock.top-center".
func (b *Builder) AddArrowBetweenAnchors(from, to string, style ArrowStyle) *Builder {
	return b.AddConnector(Connector{From: AnchorRef(from), To: AnchorRef(to), Style: style})
}

// AddConnector appends a connector with arbitrary endpoints.
func (b *Builder) AddConnector(c Connector) *Builder {
	b.connectors = append(b.connectors, c)
	return b
}

// Build checks the declaration and freezes it into a Document. The builder
// can keep being used afterwards; documents already built are unaffected.
func (b *Builder) Build() (*Document, error) {
	if !(b.width > 0 && b.height > 0) || !finite(b.width, b.height) {
		return nil, constructionErr("page", fmt.Sprintf("%gx%g", b.width, b.height), ErrInvalidPage)
	}

	v := &validator{owners: make(map[string]string)}
	doc := &Document{
		width:       b.width,
		height:      b.height,
		orientation: b.orientation,
	}

	if b.title != nil {
		if err := v.text("title", *b.title); err != nil {
			return nil, err
		}
		t := *b.title
		doc.title = &t
	}

	for _, h := range b.regions {
		r, err := h.freeze(v)
		if err != nil {
			return nil, err
		}
		doc.regions = append(doc.regions, r)
	}

	for i, c := range b.connectors {
		if err := v.connector(i, c); err != nil {
			return nil, err
		}
		doc.connectors = append(doc.connectors, cloneConnector(c))
	}

	return doc, nil
}

// RegionHandle collects the children of one region while a document is being
// built.
type RegionHandle struct {
	spec     RegionSpec
	children []child
}

// child is either a leaf node or a nested region handle.
type child struct {
	node   Node
	region *RegionHandle
}

// Name returns the region's name.
func (h *RegionHandle) Name() string {
	return h.spec.Name
}

// Len returns the number of children added so far.
func (h *RegionHandle) Len() int {
	return len(h.children)
}

// AddBox appends a box.
func (h *RegionHandle) AddBox(box Box) *RegionHandle {
	h.children = append(h.children, child{node: box})
	return h
}

// AddText appends a text block.
func (h *RegionHandle) AddText(t Text) *RegionHandle {
	h.children = append(h.children, child{node: t})
	return h
}

// AddLine appends a line or local arrow.
func (h *RegionHandle) AddLine(l Line) *RegionHandle {
	h.children = append(h.children, child{node: l})
	return h
}

// AddRegion appends a nested region and returns its handle.
func (h *RegionHandle) AddRegion(spec RegionSpec) *RegionHandle {
	nested := &RegionHandle{spec: spec}
	h.children = append(h.children, child{region: nested})
	return nested
}

// RemoveLast drops the most recently added child. It reports false when the
// region has no children.
func (h *RegionHandle) RemoveLast() bool {
	if len(h.children) == 0 {
		return false
	}
	h.children = h.children[:len(h.children)-1]
	return true
}

func (h *RegionHandle) freeze(v *validator) (Region, error) {
	spec := h.spec
	if err := v.name("region", spec.Name); err != nil {
		return Region{}, err
	}
	if !size(spec.Width) || !size(spec.Gap) || (spec.Sizing == SizeFixed && !size(spec.Height)) {
		return Region{}, constructionErr("region", spec.Name, ErrNegativeSize)
	}
	if !finite(spec.Origin.X, spec.Origin.Y) {
		return Region{}, constructionErr("region", spec.Name, ErrInvalidCoordinate)
	}
	if spec.Border != nil && !validStroke(*spec.Border) {
		return Region{}, constructionErr("region", spec.Name, ErrNegativeSize)
	}

	r := Region{
		Name:   spec.Name,
		Origin: spec.Origin,
		Width:  spec.Width,
		Height: spec.Height,
		Sizing: spec.Sizing,
		Flow:   spec.Flow,
		Gap:    spec.Gap,
	}
	if spec.Border != nil {
		border := spec.Border.Clone()
		r.Border = &border
	}
	if spec.Title != nil {
		if err := v.text("region "+spec.Name+" title", *spec.Title); err != nil {
			return Region{}, err
		}
		title := *spec.Title
		r.Title = &title
	}

	for _, c := range h.children {
		if c.region != nil {
			nested, err := c.region.freeze(v)
			if err != nil {
				return Region{}, err
			}
			r.Children = append(r.Children, nested)
			continue
		}
		if err := v.node(c.node); err != nil {
			return Region{}, err
		}
		r.Children = append(r.Children, cloneNode(c.node))
	}
	return r, nil
}

// validator carries the names seen so far while a document is frozen.
type validator struct {
	// owners maps anchorable names to the kind of element that owns them.
	owners map[string]string
}

func (v *validator) name(kind, name string) error {
	if name == "" {
		return nil
	}
	if prev, ok := v.owners[name]; ok {
		return constructionErr(kind, name, fmt.Errorf("%w: already used by a %s", ErrDuplicateName, prev))
	}
	v.owners[name] = kind
	return nil
}

func (v *validator) node(n Node) error {
	switch n := n.(type) {
	case Box:
		if err := v.name("box", n.Name); err != nil {
			return err
		}
		if !size(n.Width) || !size(n.Height) || !validStroke(n.Stroke) {
			return constructionErr("box", n.Name, ErrNegativeSize)
		}
		if !finite(n.Origin.X, n.Origin.Y) {
			return constructionErr("box", n.Name, ErrInvalidCoordinate)
		}
		if n.IsSeparator() && len(n.Labels) > 0 {
			return constructionErr("box", n.Name, ErrSeparatorLabel)
		}
		for _, label := range n.Labels {
			if err := v.text("box "+n.Name+" label", label); err != nil {
				return err
			}
		}
	case Text:
		return v.text("text", n)
	case Line:
		if !validStroke(n.Stroke) {
			return constructionErr("line", n.Start.String(), ErrNegativeSize)
		}
		if !finite(n.Start.X, n.Start.Y, n.End.X, n.End.Y) {
			return constructionErr("line", n.Start.String(), ErrInvalidCoordinate)
		}
		if n.Head != nil && !finite(n.Head.Length, n.Head.Spread) {
			return constructionErr("line", n.Start.String(), ErrInvalidCoordinate)
		}
		if n.Head != nil && n.Start.Eq(n.End) {
			return constructionErr("line", n.Start.String(), ErrDegenerateConnector)
		}
	}
	return nil
}

func (v *validator) text(op string, t Text) error {
	if !(t.Font.Size > 0) || math.IsInf(t.Font.Size, 0) {
		return constructionErr(op, t.Text, ErrInvalidFontSize)
	}
	if !size(t.LineHeight) {
		return constructionErr(op, t.Text, ErrNegativeSize)
	}
	if !finite(t.Origin.X, t.Origin.Y) {
		return constructionErr(op, t.Text, ErrInvalidCoordinate)
	}
	return nil
}

// size reports whether v is a usable width, height or gap: finite and not
// negative. NaN fails the comparison.
func size(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// validStroke reports whether a stroke's width and dash pattern are usable
// sizes.
func validStroke(s core.Stroke) bool {
	if !size(s.Width) {
		return false
	}
	for _, d := range s.Dash {
		if !size(d) {
			return false
		}
	}
	return true
}

// finite reports whether every value is neither NaN nor infinite.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (v *validator) connector(i int, c Connector) error {
	id := fmt.Sprintf("#%d %s -> %s", i, c.From, c.To)
	for _, end := range []Endpoint{c.From, c.To} {
		if !end.IsAnchor() {
			continue
		}
		owner, _, err := ParseAnchor(end.Anchor)
		if err != nil {
			return constructionErr("connector", id, err)
		}
		if _, ok := v.owners[owner]; !ok {
			return constructionErr("connector", id, fmt.Errorf("%w: %s", ErrUnknownAnchor, end.Anchor))
		}
	}
	if c.From.IsAnchor() && c.From.Anchor == c.To.Anchor {
		return constructionErr("connector", id, ErrDegenerateConnector)
	}
	if !c.From.IsAnchor() && !c.To.IsAnchor() && c.From.Point.Eq(c.To.Point) {
		return constructionErr("connector", id, ErrDegenerateConnector)
	}
	if !validStroke(c.Style.Stroke) {
		return constructionErr("connector", id, ErrNegativeSize)
	}
	if !finite(c.From.Point.X, c.From.Point.Y, c.To.Point.X, c.To.Point.Y) {
		return constructionErr("connector", id, ErrInvalidCoordinate)
	}
	if c.Style.Head != nil && !finite(c.Style.Head.Length, c.Style.Head.Spread) {
		return constructionErr("connector", id, ErrInvalidCoordinate)
	}
	return nil
}
