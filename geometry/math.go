// Package geometry provides the pure coordinate helpers used by layout and
// rendering: centering, arrowheads and fixed line stacking.
package geometry

import (
	"math"
	"strings"

	"schematic/core"
)

// LineBreak is the only marker that splits a text block into lines.
const LineBreak = "\n"

// Segment is a straight stroke between two points.
type Segment struct {
	From, To core.Point
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return Distance(s.From, s.To)
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() core.Point {
	return core.Point{X: (s.From.X + s.To.X) / 2, Y: (s.From.Y + s.To.Y) / 2}
}

// Line is one line of a wrapped text block and its offset down from the block's
// first baseline.
type Line struct {
	Text   string
	Offset float64
}

// CenterOffset returns the offset that centers content inside total.
// It goes negative when content is wider than total, so overflowing text spills
// evenly on both sides.
func CenterOffset(total, content float64) float64 {
	return (total - content) / 2
}

// Angle returns the direction of the vector from start to end in radians.
func Angle(start, end core.Point) float64 {
	return math.Atan2(end.Y-start.Y, end.X-start.X)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b core.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ArrowHeadSegments returns the two strokes of an arrowhead at end. Each stroke
// starts at end, has the given length and deviates by spread radians from the
// reversed shaft direction. start must differ from end.
func ArrowHeadSegments(start, end core.Point, length, spread float64) (Segment, Segment) {
	back := Angle(start, end) + math.Pi
	at := func(a float64) core.Point {
		return core.Point{
			X: end.X + length*math.Cos(a),
			Y: end.Y + length*math.Sin(a),
		}
	}
	return Segment{From: end, To: at(back + spread)}, Segment{From: end, To: at(back - spread)}
}

// SplitLines splits text on explicit line breaks only.
func SplitLines(text string) []string {
	return strings.Split(text, LineBreak)
}

// WrapFixedLines splits text on explicit line breaks and stacks the lines
// lineHeight apart, first line at offset zero. No reflow is attempted.
func WrapFixedLines(text string, lineHeight float64) []Line {
	parts := SplitLines(text)
	lines := make([]Line, len(parts))
	for i, part := range parts {
		lines[i] = Line{Text: part, Offset: float64(i) * lineHeight}
	}
	return lines
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Max returns the larger of two floats.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
