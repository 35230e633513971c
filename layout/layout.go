// Package layout resolves region-local schematic coordinates to absolute page
// coordinates. It is the region composer: a single-direction block layout with
// a centered row variant, and nothing more.
package layout

import (
	"schematic/core"
	"schematic/diagram"
	"schematic/geometry"
)

// Item is a resolved region child: *Box, *Text, *Line or *Frame.
type Item interface {
	isItem()
}

// Frame is a region placed on the page.
type Frame struct {
	Name   string
	Bounds core.Rect
	Border *core.Stroke
	Title  *Text
	Items  []Item
}

func (*Frame) isItem() {}

// Box is a placed box.
type Box struct {
	Name   string
	Bounds core.Rect
	Stroke core.Stroke
	Labels []Text
}

func (*Box) isItem() {}

// Text is a placed text block. Origin is the absolute left end of the first
// baseline; Container is the box or region it is aligned in.
type Text struct {
	Source    diagram.Text
	Origin    core.Point
	Container core.Rect
}

func (*Text) isItem() {}

// Line is a placed line or arrow.
type Line struct {
	Start, End core.Point
	Stroke     core.Stroke
	Head       *diagram.ArrowHead
}

func (*Line) isItem() {}

// Stack returns the offsets, measured down from the top of the parent, at which
// children of the given heights start when stacked gap apart, and the total
// height they take.
func Stack(heights []float64, gap float64) (offsets []float64, total float64) {
	offsets = make([]float64, len(heights))
	running := 0.0
	for i, h := range heights {
		offsets[i] = running
		running += h + gap
	}
	if len(heights) > 0 {
		running -= gap
	}
	return offsets, running
}

// Row returns the x offsets, relative to the left of a container of the given
// width, of items laid out side by side gap apart and centered as a group, and
// the width of the group.
func Row(containerWidth float64, widths []float64, gap float64) (offsets []float64, total float64) {
	for i, w := range widths {
		total += w
		if i > 0 {
			total += gap
		}
	}
	offsets = make([]float64, len(widths))
	x := geometry.CenterOffset(containerWidth, total)
	for i, w := range widths {
		offsets[i] = x
		x += w + gap
	}
	return offsets, total
}

// ComposePage resolves every top-level region of a page. Region origins are
// absolute page coordinates.
func ComposePage(regions []diagram.Region, page core.Rect, o core.Orientation) ([]*Frame, []Overflow) {
	c := &composer{orientation: o}
	frames := make([]*Frame, 0, len(regions))
	for _, r := range regions {
		f, overflows := Compose(r, core.Point{}, o)
		c.overflows = append(c.overflows, overflows...)
		c.checkInside("", page, r.Name, f.Bounds)
		frames = append(frames, f)
	}
	return frames, c.overflows
}

// Compose resolves one region whose origin is relative to parent.
func Compose(r diagram.Region, parent core.Point, o core.Orientation) (*Frame, []Overflow) {
	c := &composer{orientation: o}
	f := c.compose(r, parent)
	return f, c.overflows
}

type composer struct {
	orientation core.Orientation
	overflows   []Overflow
}

func (c *composer) down() float64 {
	return c.orientation.Down()
}

// compose places r, then its children, depth first.
func (c *composer) compose(r diagram.Region, parent core.Point) *Frame {
	origin := parent.Add(r.Origin)
	f := &Frame{
		Name:   r.Name,
		Bounds: core.Rect{X: origin.X, Y: origin.Y, Width: r.Width, Height: resolvedHeight(r, c.orientation)},
		Border: r.Border,
	}
	if r.Title != nil {
		f.Title = c.placeText(*r.Title, origin, f.Bounds)
	}

	if r.Sizing == diagram.SizeFixed {
		if extent := contentExtent(r, c.orientation); extent > r.Height {
			c.overflows = append(c.overflows, Overflow{
				Kind:   ContentHeight,
				Region: r.Name,
				Amount: extent - r.Height,
			})
		}
	}

	switch r.Flow {
	case diagram.FlowStack:
		c.stack(r, f)
	case diagram.FlowRow:
		c.row(r, f)
	default:
		for _, n := range r.Children {
			c.place(n, origin, f)
		}
	}
	return f
}

// place positions a child at its own local origin.
func (c *composer) place(n diagram.Node, origin core.Point, f *Frame) {
	switch n := n.(type) {
	case diagram.Box:
		c.addBox(n, origin.Add(n.Origin), f)
	case diagram.Text:
		f.Items = append(f.Items, c.placeText(n, origin, f.Bounds))
	case diagram.Line:
		c.addLine(n, origin, f)
	case diagram.Region:
		nested := c.compose(n, origin)
		c.checkInside(f.Name, f.Bounds, n.Name, nested.Bounds)
		f.Items = append(f.Items, nested)
	}
}

// stack positions children one below the other, each at running offset.
func (c *composer) stack(r diagram.Region, f *Frame) {
	heights := make([]float64, len(r.Children))
	for i, n := range r.Children {
		heights[i] = nodeHeight(n, c.orientation)
	}
	offsets, _ := Stack(heights, r.Gap)

	top := core.Point{X: f.Bounds.X, Y: f.Bounds.Y}
	for i, n := range r.Children {
		slot := core.Point{X: top.X, Y: top.Y + c.down()*offsets[i]}
		switch n := n.(type) {
		case diagram.Box:
			c.addBox(n, core.Point{X: slot.X + n.Origin.X, Y: slot.Y}, f)
		case diagram.Text:
			n.Origin.Y = 0
			n.Middle = false
			t := c.placeText(n, slot, f.Bounds)
			t.Origin.Y += c.down() * n.Font.Size
			f.Items = append(f.Items, t)
		case diagram.Line:
			// Shift the line so its highest point sits at the slot top.
			shift := -c.down() * lineTop(n, c.orientation)
			c.addLine(n, core.Point{X: slot.X, Y: slot.Y + shift}, f)
		case diagram.Region:
			n.Origin.Y = 0
			nested := c.compose(n, slot)
			c.checkInside(f.Name, f.Bounds, n.Name, nested.Bounds)
			f.Items = append(f.Items, nested)
		}
	}
}

// row lines boxes and regions up side by side; other children stay free.
func (c *composer) row(r diagram.Region, f *Frame) {
	var widths []float64
	for _, n := range r.Children {
		if w, ok := rowWidth(n); ok {
			widths = append(widths, w)
		}
	}
	offsets, total := Row(r.Width, widths, r.Gap)
	if total > r.Width {
		c.overflows = append(c.overflows, Overflow{
			Kind:   ContentWidth,
			Region: r.Name,
			Amount: total - r.Width,
		})
	}

	origin := core.Point{X: f.Bounds.X, Y: f.Bounds.Y}
	next := 0
	for _, n := range r.Children {
		switch n := n.(type) {
		case diagram.Box:
			at := core.Point{X: origin.X + offsets[next], Y: origin.Y + n.Origin.Y}
			next++
			c.addBox(n, at, f)
		case diagram.Region:
			n.Origin.X = 0
			nested := c.compose(n, core.Point{X: origin.X + offsets[next], Y: origin.Y})
			next++
			c.checkInside(f.Name, f.Bounds, n.Name, nested.Bounds)
			f.Items = append(f.Items, nested)
		default:
			c.place(n, origin, f)
		}
	}
}

func (c *composer) addBox(b diagram.Box, at core.Point, f *Frame) {
	placed := &Box{
		Name:   b.Name,
		Bounds: core.Rect{X: at.X, Y: at.Y, Width: b.Width, Height: b.Height},
		Stroke: b.Stroke,
	}
	for _, label := range b.Labels {
		placed.Labels = append(placed.Labels, *c.placeLabel(label, placed.Bounds))
	}
	c.checkInside(f.Name, f.Bounds, b.Name, placed.Bounds)
	f.Items = append(f.Items, placed)
}

func (c *composer) addLine(l diagram.Line, origin core.Point, f *Frame) {
	placed := &Line{
		Start:  origin.Add(l.Start),
		End:    origin.Add(l.End),
		Stroke: l.Stroke,
		Head:   l.Head,
	}
	c.checkInside(f.Name, f.Bounds, "line", segmentBounds(placed.Start, placed.End, c.orientation))
	f.Items = append(f.Items, placed)
}

// placeText resolves a text block directly inside a region.
func (c *composer) placeText(t diagram.Text, origin core.Point, container core.Rect) *Text {
	at := origin.Add(t.Origin)
	if t.Middle {
		at.Y = container.Y + c.down()*t.MiddleOffset(container.Height)
	}
	return &Text{Source: t, Origin: at, Container: container}
}

// placeLabel resolves a label relative to its box.
func (c *composer) placeLabel(t diagram.Text, box core.Rect) *Text {
	return c.placeText(t, core.Point{X: box.X, Y: box.Y}, box)
}

// checkInside records an OutOfBounds overflow when inner leaves outer.
func (c *composer) checkInside(parent string, outer core.Rect, child string, inner core.Rect) {
	if outer.Contains(inner, c.orientation) {
		return
	}
	c.overflows = append(c.overflows, Overflow{
		Kind:   OutOfBounds,
		Region: parent,
		Child:  child,
		Amount: protrusion(outer, inner, c.orientation),
	})
}

// resolvedHeight returns the declared height, or the content extent for
// auto-sized regions.
func resolvedHeight(r diagram.Region, o core.Orientation) float64 {
	if r.Sizing == diagram.SizeAuto {
		return contentExtent(r, o)
	}
	return r.Height
}

// contentExtent is how far down from the region's top its children reach.
func contentExtent(r diagram.Region, o core.Orientation) float64 {
	if r.Flow == diagram.FlowStack {
		heights := make([]float64, len(r.Children))
		for i, n := range r.Children {
			heights[i] = nodeHeight(n, o)
		}
		_, total := Stack(heights, r.Gap)
		return total
	}
	extent := 0.0
	for _, n := range r.Children {
		extent = geometry.Max(extent, freeExtent(n, o))
	}
	return extent
}

// freeExtent is the distance from the parent's top to the bottom of a child
// placed at its local origin.
func freeExtent(n diagram.Node, o core.Orientation) float64 {
	depth := func(y float64) float64 { return o.Down() * y }
	switch n := n.(type) {
	case diagram.Box:
		return depth(n.Origin.Y) + n.Height
	case diagram.Text:
		return depth(n.Origin.Y) + n.Extent() - n.Font.Size
	case diagram.Line:
		return geometry.Max(depth(n.Start.Y), depth(n.End.Y))
	case diagram.Region:
		return depth(n.Origin.Y) + resolvedHeight(n, o)
	}
	return 0
}

// nodeHeight is the slot a child takes in a stack.
func nodeHeight(n diagram.Node, o core.Orientation) float64 {
	switch n := n.(type) {
	case diagram.Box:
		return n.Height
	case diagram.Text:
		return n.Extent()
	case diagram.Line:
		d := n.End.Y - n.Start.Y
		if d < 0 {
			d = -d
		}
		return d
	case diagram.Region:
		return resolvedHeight(n, o)
	}
	return 0
}

// rowWidth reports the width of children that take part in a row.
func rowWidth(n diagram.Node) (float64, bool) {
	switch n := n.(type) {
	case diagram.Box:
		return n.Width, true
	case diagram.Region:
		return n.Width, true
	}
	return 0, false
}

// lineTop returns how far down the page the higher end of a line sits,
// relative to its local origin.
func lineTop(l diagram.Line, o core.Orientation) float64 {
	a, b := o.Down()*l.Start.Y, o.Down()*l.End.Y
	if a < b {
		return a
	}
	return b
}

// segmentBounds returns the rectangle spanned by two points, as a Rect whose
// origin is its top-left corner in orientation o.
func segmentBounds(a, b core.Point, o core.Orientation) core.Rect {
	left, right := a.X, b.X
	if left > right {
		left, right = right, left
	}
	top := a.Y
	if o.Down()*(b.Y-a.Y) < 0 {
		top = b.Y
	}
	h := b.Y - a.Y
	if h < 0 {
		h = -h
	}
	return core.Rect{X: left, Y: top, Width: right - left, Height: h}
}
