package diagram

import (
	"fmt"
	"strings"

	"schematic/core"
)

// Edge names a point on the boundary (or the center) of a rectangle.
type Edge int

const (
	TopLeft Edge = iota
	TopCenter
	TopRight
	LeftCenter
	Center
	RightCenter
	BottomLeft
	BottomCenter
	BottomRight
)

var edgeNames = [...]string{
	TopLeft:      "top-left",
	TopCenter:    "top-center",
	TopRight:     "top-right",
	LeftCenter:   "left-center",
	Center:       "center",
	RightCenter:  "right-center",
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
}

// Edges lists every edge in a fixed order.
func Edges() []Edge {
	return []Edge{TopLeft, TopCenter, TopRight, LeftCenter, Center, RightCenter, BottomLeft, BottomCenter, BottomRight}
}

// String returns the edge name used in anchor references.
func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return "unknown"
	}
	return edgeNames[e]
}

// ParseEdge converts an edge name to an Edge.
func ParseEdge(s string) (Edge, error) {
	for i, name := range edgeNames {
		if name == s {
			return Edge(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEdge, s)
}

// fractions returns the horizontal and downward position of the edge as a
// fraction of width and height.
func (e Edge) fractions() (fx, fy float64) {
	col := int(e) % 3
	row := int(e) / 3
	return float64(col) / 2, float64(row) / 2
}

// Point returns the edge's absolute position on r.
func (e Edge) Point(r core.Rect, o core.Orientation) core.Point {
	fx, fy := e.fractions()
	return core.Point{
		X: r.X + fx*r.Width,
		Y: r.Y + o.Down()*fy*r.Height,
	}
}

// ParseAnchor splits a reference such as "deviceBody.bottom-center" into its
// owner name and edge. Owner names may themselves contain dots; the edge is
// everything after the last one.
func ParseAnchor(ref string) (owner string, edge Edge, err error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", 0, fmt.Errorf("%w: malformed anchor %q", ErrUnknownAnchor, ref)
	}
	edge, err = ParseEdge(ref[i+1:])
	if err != nil {
		return "", 0, err
	}
	return ref[:i], edge, nil
}

// AnchorName joins an owner and an edge into an anchor reference.
func AnchorName(owner string, edge Edge) string {
	return owner + "." + edge.String()
}
