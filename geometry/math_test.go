package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic/core"
)

const tolerance = 1e-9

func TestCenterOffset(t *testing.T) {
	tests := []struct {
		name           string
		total, content float64
		want           float64
	}{
		{"fits", 101, 14, 43.5},
		{"exact", 50, 50, 0},
		{"empty content", 20, 0, 10},
		{"overflow goes negative", 10, 30, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CenterOffset(tt.total, tt.content), tolerance)
		})
	}
}

func TestArrowHeadSegments(t *testing.T) {
	cases := []struct {
		name       string
		start, end core.Point
	}{
		{"rightwards", core.Point{X: 0, Y: 0}, core.Point{X: 100, Y: 0}},
		{"downwards", core.Point{X: 10, Y: 10}, core.Point{X: 10, Y: 80}},
		{"diagonal", core.Point{X: 5, Y: 7}, core.Point{X: -40, Y: 33}},
		{"steep up-left", core.Point{X: 300, Y: 400}, core.Point{X: 299, Y: 10}},
	}
	spreads := []float64{math.Pi / 6, math.Pi / 8, 0.3}
	lengths := []float64{4, 6.5, 12}

	for _, c := range cases {
		for _, spread := range spreads {
			for _, length := range lengths {
				t.Run(c.name, func(t *testing.T) {
					s1, s2 := ArrowHeadSegments(c.start, c.end, length, spread)

					assert.True(t, s1.From.Eq(c.end), "head starts at the shaft end")
					assert.True(t, s2.From.Eq(c.end), "head starts at the shaft end")
					assert.InDelta(t, length, s1.Length(), tolerance)
					assert.InDelta(t, length, s2.Length(), tolerance)

					reversed := core.Point{X: c.start.X - c.end.X, Y: c.start.Y - c.end.Y}
					assert.InDelta(t, spread, angleBetween(reversed, s1.To.Sub(s1.From)), 1e-7)
					assert.InDelta(t, spread, angleBetween(reversed, s2.To.Sub(s2.From)), 1e-7)
				})
			}
		}
	}
}

func TestArrowHeadSegmentsAreMirrored(t *testing.T) {
	s1, s2 := ArrowHeadSegments(core.Point{X: 0, Y: 0}, core.Point{X: 10, Y: 0}, 5, math.Pi/4)

	assert.InDelta(t, s1.To.X, s2.To.X, tolerance)
	assert.InDelta(t, s1.To.Y, -s2.To.Y, tolerance)
	assert.Less(t, s1.To.X, 10.0, "head points back along the shaft")
}

func TestWrapFixedLines(t *testing.T) {
	lines := WrapFixedLines("STEP 1\nRECEIVE\nINPUT", 8)
	require.Len(t, lines, 3)

	assert.Equal(t, Line{Text: "STEP 1", Offset: 0}, lines[0])
	assert.Equal(t, Line{Text: "RECEIVE", Offset: 8}, lines[1])
	assert.Equal(t, Line{Text: "INPUT", Offset: 16}, lines[2])

	t.Run("no reflow of long lines", func(t *testing.T) {
		long := "a very long single line that is never wrapped automatically"
		lines := WrapFixedLines(long, 10)
		require.Len(t, lines, 1)
		assert.Equal(t, long, lines[0].Text)
	})

	t.Run("restartable", func(t *testing.T) {
		assert.Equal(t, WrapFixedLines("a\nb", 3), WrapFixedLines("a\nb", 3))
	})

	t.Run("empty text is one empty line", func(t *testing.T) {
		assert.Equal(t, []Line{{Text: "", Offset: 0}}, WrapFixedLines("", 12))
	})
}

func TestSegmentMidpoint(t *testing.T) {
	s := Segment{From: core.Point{X: 0, Y: 10}, To: core.Point{X: 20, Y: 30}}
	assert.Equal(t, core.Point{X: 10, Y: 20}, s.Midpoint())
}

func angleBetween(a, b core.Point) float64 {
	dot := a.X*b.X + a.Y*b.Y
	cos := dot / (math.Hypot(a.X, a.Y) * math.Hypot(b.X, b.Y))
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
