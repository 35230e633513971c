package render

import (
	"fmt"

	"schematic/core"
	"schematic/diagram"
	"schematic/geometry"
	"schematic/layout"
)

// state is the progress of a single render.
type state int

const (
	unresolved state = iota
	regionsPlaced
	anchorsResolved
	emitted
)

func (s state) String() string {
	switch s {
	case unresolved:
		return "unresolved"
	case regionsPlaced:
		return "regions-placed"
	case anchorsResolved:
		return "anchors-resolved"
	case emitted:
		return "emitted"
	default:
		return "unknown"
	}
}

type opKind int

const (
	opRect opKind = iota
	opLine
	opText
)

// op is one primitive call, already in canvas coordinates.
type op struct {
	kind           opKind
	x1, y1, x2, y2 float64
	stroke         core.Stroke
	text           string
	font           core.Font
	color          core.Color
}

// pass holds everything derived from one document during one render.
type pass struct {
	r     *Renderer
	doc   *diagram.Document
	state state

	frames    []*layout.Frame
	overflows []layout.Overflow
	anchors   map[string]core.Point
	arrows    []geometry.Segment
	ops       []op
}

func newPass(r *Renderer, doc *diagram.Document) *pass {
	return &pass{r: r, doc: doc, state: unresolved}
}

// advance moves to the next state. Skipping or repeating a state is a bug in
// this package, not a recoverable condition.
func (p *pass) advance(to state) {
	if to != p.state+1 {
		panic(fmt.Sprintf("render: invalid transition %s -> %s", p.state, to))
	}
	p.state = to
}

func (p *pass) down() float64 {
	return p.doc.Orientation().Down()
}

// page returns the page rectangle in document coordinates.
func (p *pass) page() core.Rect {
	r := core.Rect{Width: p.doc.Width(), Height: p.doc.Height()}
	if p.doc.Orientation() == core.YUp {
		r.Y = p.doc.Height()
	}
	return r
}

// placeRegions resolves every region to absolute coordinates.
func (p *pass) placeRegions() {
	p.frames, p.overflows = layout.ComposePage(p.doc.Regions(), p.page(), p.doc.Orientation())
	p.advance(regionsPlaced)
}

// resolveAnchors computes every anchor point from the placed frames and binds
// the connectors' endpoints to them.
func (p *pass) resolveAnchors() error {
	p.anchors = make(map[string]core.Point)
	for _, f := range p.frames {
		p.collectAnchors(f)
	}

	for i, c := range p.doc.Connectors() {
		from, err := p.endpoint(c.From)
		if err != nil {
			return connectorErr(i, c, err)
		}
		to, err := p.endpoint(c.To)
		if err != nil {
			return connectorErr(i, c, err)
		}
		if c.Style.Head != nil && from.Eq(to) {
			return connectorErr(i, c, diagram.ErrDegenerateConnector)
		}
		p.arrows = append(p.arrows, geometry.Segment{From: from, To: to})
	}

	p.advance(anchorsResolved)
	return nil
}

func connectorErr(i int, c diagram.Connector, err error) error {
	return &diagram.ConstructionError{
		Op:   "connector",
		Name: fmt.Sprintf("#%d %s -> %s", i, c.From, c.To),
		Err:  err,
	}
}

func (p *pass) collectAnchors(f *layout.Frame) {
	o := p.doc.Orientation()
	if f.Name != "" {
		for _, e := range diagram.Edges() {
			p.anchors[diagram.AnchorName(f.Name, e)] = e.Point(f.Bounds, o)
		}
	}
	for _, item := range f.Items {
		switch item := item.(type) {
		case *layout.Frame:
			p.collectAnchors(item)
		case *layout.Box:
			if item.Name == "" {
				continue
			}
			for _, e := range diagram.Edges() {
				p.anchors[diagram.AnchorName(item.Name, e)] = e.Point(item.Bounds, o)
			}
		}
	}
}

func (p *pass) endpoint(e diagram.Endpoint) (core.Point, error) {
	if !e.IsAnchor() {
		return e.Point, nil
	}
	pt, ok := p.anchors[e.Anchor]
	if !ok {
		return core.Point{}, fmt.Errorf("%w: %s", diagram.ErrUnknownAnchor, e.Anchor)
	}
	return pt, nil
}

// plan builds the ordered call list, measuring text on the way.
func (p *pass) plan() error {
	if title, ok := p.doc.Title(); ok {
		page := p.page()
		placed := &layout.Text{Source: title, Origin: title.Origin, Container: page}
		if err := p.planText(placed, ""); err != nil {
			return err
		}
	}

	for _, f := range p.frames {
		if err := p.planFrame(f); err != nil {
			return err
		}
	}

	for i, c := range p.doc.Connectors() {
		p.planLine(p.arrows[i].From, p.arrows[i].To, c.Style.Stroke, c.Style.Head)
	}
	return nil
}

func (p *pass) planFrame(f *layout.Frame) error {
	if f.Border != nil {
		p.planRect(f.Bounds, *f.Border)
	}
	if f.Title != nil {
		if err := p.planText(f.Title, f.Name); err != nil {
			return err
		}
	}
	for _, item := range f.Items {
		switch item := item.(type) {
		case *layout.Box:
			if item.Bounds.Height == 0 {
				y := item.Bounds.Y
				p.planLine(core.Point{X: item.Bounds.X, Y: y}, core.Point{X: item.Bounds.Right(), Y: y}, item.Stroke, nil)
			} else {
				p.planRect(item.Bounds, item.Stroke)
			}
			for i := range item.Labels {
				if err := p.planText(&item.Labels[i], f.Name); err != nil {
					return err
				}
			}
		case *layout.Text:
			if err := p.planText(item, f.Name); err != nil {
				return err
			}
		case *layout.Line:
			p.planLine(item.Start, item.End, item.Stroke, item.Head)
		case *layout.Frame:
			if err := p.planFrame(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// toCanvas converts a document point to the canvas frame (y down from the top
// of the page).
func (p *pass) toCanvas(pt core.Point) core.Point {
	if p.doc.Orientation() == core.YUp {
		return core.Point{X: pt.X, Y: p.doc.Height() - pt.Y}
	}
	return pt
}

func (p *pass) planRect(r core.Rect, s core.Stroke) {
	top := p.toCanvas(core.Point{X: r.X, Y: r.Y})
	p.ops = append(p.ops, op{
		kind:   opRect,
		x1:     top.X,
		y1:     top.Y,
		x2:     r.Width,
		y2:     r.Height,
		stroke: s,
	})
}

func (p *pass) planLine(from, to core.Point, s core.Stroke, head *diagram.ArrowHead) {
	p.addSegment(geometry.Segment{From: from, To: to}, s)
	if head == nil || from.Eq(to) {
		return
	}
	left, right := geometry.ArrowHeadSegments(from, to, head.Length, head.Spread)
	p.addSegment(left, s)
	p.addSegment(right, s)
}

func (p *pass) addSegment(seg geometry.Segment, s core.Stroke) {
	a, b := p.toCanvas(seg.From), p.toCanvas(seg.To)
	p.ops = append(p.ops, op{kind: opLine, x1: a.X, y1: a.Y, x2: b.X, y2: b.Y, stroke: s})
}

// planText measures and positions each line of a text block.
func (p *pass) planText(t *layout.Text, region string) error {
	src := t.Source
	for _, line := range src.Lines() {
		width, err := p.r.metrics.Measure(line.Text, src.Font.Role, src.Font.Size)
		if err != nil {
			return &BackendError{Op: "measure", Err: err}
		}

		var x float64
		switch src.Align {
		case core.AlignBox:
			x = t.Container.X + geometry.CenterOffset(t.Container.Width, width)
		case core.AlignPage:
			x = geometry.CenterOffset(p.doc.Width(), width)
		default:
			x = t.Origin.X
		}

		if over := textOverflow(x, width, t.Container); over > 0 {
			p.overflows = append(p.overflows, layout.Overflow{
				Kind:   layout.TextWidth,
				Region: region,
				Child:  line.Text,
				Amount: over,
			})
		}

		baseline := p.toCanvas(core.Point{X: x, Y: t.Origin.Y + p.down()*line.Offset})
		p.ops = append(p.ops, op{
			kind:  opText,
			x1:    baseline.X,
			y1:    baseline.Y,
			text:  line.Text,
			font:  src.Font,
			color: src.Color,
		})
	}
	return nil
}

// textOverflow returns how far a run starting at x spills past its container.
func textOverflow(x, width float64, container core.Rect) float64 {
	return geometry.Max(container.X-x, x+width-container.Right())
}

// emit issues the planned calls and finishes the page.
func (p *pass) emit(c core.Canvas) error {
	for _, o := range p.ops {
		var err error
		var name string
		switch o.kind {
		case opRect:
			name = "draw rect"
			err = c.DrawRect(o.x1, o.y1, o.x2, o.y2, o.stroke)
		case opLine:
			name = "draw line"
			err = c.DrawLine(o.x1, o.y1, o.x2, o.y2, o.stroke)
		case opText:
			name = "draw text"
			err = c.DrawText(o.x1, o.y1, o.text, o.font, o.color)
		}
		if err != nil {
			return &BackendError{Op: name, Err: err}
		}
	}
	if err := c.FinishPage(); err != nil {
		return &BackendError{Op: "finish page", Err: err}
	}
	p.advance(emitted)
	return nil
}
