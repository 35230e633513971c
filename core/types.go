// Package core contains the fundamental types shared by the schematic layout
// engine, its renderer and the canvas backends.
package core

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point is a coordinate on the page, in points (1/72 inch).
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Eq reports whether two points are the same within tolerance.
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9
}

// String returns the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Orientation is the direction of the y axis in a document's frame.
type Orientation int

const (
	// YDown grows y towards the bottom of the page (SVG, screens).
	YDown Orientation = iota
	// YUp grows y towards the top of the page (PDF).
	YUp
)

// Down returns the sign of a step down the page: +1 for YDown, -1 for YUp.
func (o Orientation) Down() float64 {
	if o == YUp {
		return -1
	}
	return 1
}

// String returns the orientation name used in document files.
func (o Orientation) String() string {
	if o == YUp {
		return "up"
	}
	return "down"
}

// ParseOrientation converts "up" or "down" to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "down", "y-down":
		return YDown, nil
	case "up", "y-up":
		return YUp, nil
	default:
		return YDown, fmt.Errorf("unknown orientation: %s", s)
	}
}

// Rect is an axis-aligned rectangle whose origin is its top-left corner in the
// frame it belongs to. Height always extends down the page.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Bottom returns the y coordinate of the bottom edge for orientation o.
func (r Rect) Bottom(o Orientation) float64 {
	return r.Y + o.Down()*r.Height
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Contains reports whether inner lies within r, edges included.
func (r Rect) Contains(inner Rect, o Orientation) bool {
	const eps = 1e-9
	if inner.X < r.X-eps || inner.Right() > r.Right()+eps {
		return false
	}
	// Distances measured down the page from r's top edge.
	down := o.Down()
	top := (inner.Y - r.Y) * down
	bottom := top + inner.Height
	return top >= -eps && bottom <= r.Height+eps
}

// FontRole selects one of the embedded fonts.
type FontRole int

const (
	Regular FontRole = iota
	Bold
	Italic
)

// String returns the role name.
func (f FontRole) String() string {
	switch f {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "unknown"
	}
}

// ParseFontRole converts a role name to a FontRole.
func ParseFontRole(s string) (FontRole, error) {
	switch strings.ToLower(s) {
	case "", "regular", "normal":
		return Regular, nil
	case "bold":
		return Bold, nil
	case "italic", "oblique":
		return Italic, nil
	default:
		return Regular, fmt.Errorf("unknown font role: %s", s)
	}
}

// Font is a font role at a size in points.
type Font struct {
	Role FontRole
	Size float64
}

// Align controls the horizontal placement of a text run.
type Align int

const (
	// AlignLeft starts the run at its origin.
	AlignLeft Align = iota
	// AlignBox centers the run in its containing box or region.
	AlignBox
	// AlignPage centers the run on the page width.
	AlignPage
)

// String returns the alignment name used in document files.
func (a Align) String() string {
	switch a {
	case AlignBox:
		return "box"
	case AlignPage:
		return "page"
	default:
		return "left"
	}
}

// ParseAlign converts an alignment name to an Align.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return AlignLeft, nil
	case "box", "center", "centered-in-box":
		return AlignBox, nil
	case "page", "centered-on-page":
		return AlignPage, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment: %s", s)
	}
}

// Color is an opaque sRGB colour. The zero value is black.
type Color struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = Color{}
	White = Color{R: 0xff, G: 0xff, B: 0xff}
	Gray  = Color{R: 0x80, G: 0x80, B: 0x80}
)

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (Color, error) {
	if s == "" {
		return Black, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("parsing color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// MarshalText encodes the colour as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a "#rrggbb" colour.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Stroke describes how a rectangle outline or line is drawn.
type Stroke struct {
	Color Color
	Width float64
	// Dash is an on/off pattern in points; empty means solid.
	Dash []float64
}

// DefaultStroke is a solid black hairline of 1pt.
var DefaultStroke = Stroke{Color: Black, Width: 1}

// Clone returns a copy that shares no memory with s.
func (s Stroke) Clone() Stroke {
	out := s
	if s.Dash != nil {
		out.Dash = append([]float64(nil), s.Dash...)
	}
	return out
}
