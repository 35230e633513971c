package layout

import (
	"fmt"

	"schematic/core"
	"schematic/geometry"
)

// OverflowKind classifies a layout overflow.
type OverflowKind int

const (
	// ContentHeight: children reach further down than a fixed region height.
	ContentHeight OverflowKind = iota
	// ContentWidth: a row is wider than its region.
	ContentWidth
	// OutOfBounds: a child lies partly outside its parent (or the page).
	OutOfBounds
	// TextWidth: a text run is wider than the box or region it sits in.
	TextWidth
)

// String returns the kind name.
func (k OverflowKind) String() string {
	switch k {
	case ContentHeight:
		return "content-height"
	case ContentWidth:
		return "content-width"
	case OutOfBounds:
		return "out-of-bounds"
	case TextWidth:
		return "text-width"
	default:
		return "unknown"
	}
}

// Overflow is a non-fatal diagnostic: content is drawn where it was computed,
// even when that is outside its container.
type Overflow struct {
	Kind OverflowKind
	// Region names the container; empty for the page or unnamed regions.
	Region string
	// Child names the offending element, if it has a name.
	Child string
	// Amount is how far, in points, the content exceeds its container.
	Amount float64
}

func (o Overflow) String() string {
	where := o.Region
	if where == "" {
		where = "page"
	}
	if o.Child != "" {
		return fmt.Sprintf("%s: %q in %s by %.2fpt", o.Kind, o.Child, where, o.Amount)
	}
	return fmt.Sprintf("%s: %s by %.2fpt", o.Kind, where, o.Amount)
}

// protrusion returns the largest distance by which inner sticks out of outer.
func protrusion(outer, inner core.Rect, o core.Orientation) float64 {
	down := o.Down()
	top := (inner.Y - outer.Y) * down
	bottom := top + inner.Height

	worst := 0.0
	worst = geometry.Max(worst, outer.X-inner.X)
	worst = geometry.Max(worst, inner.Right()-outer.Right())
	worst = geometry.Max(worst, -top)
	worst = geometry.Max(worst, bottom-outer.Height)
	return worst
}
