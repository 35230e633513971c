package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic/core"
)

func TestEdgePoint(t *testing.T) {
	r := core.Rect{X: 100, Y: 697, Width: 125, Height: 100}
	tests := []struct {
		edge Edge
		down core.Point
		up   core.Point
	}{
		{TopLeft, core.Point{X: 100, Y: 697}, core.Point{X: 100, Y: 697}},
		{TopCenter, core.Point{X: 162.5, Y: 697}, core.Point{X: 162.5, Y: 697}},
		{Center, core.Point{X: 162.5, Y: 747}, core.Point{X: 162.5, Y: 647}},
		{RightCenter, core.Point{X: 225, Y: 747}, core.Point{X: 225, Y: 647}},
		{BottomCenter, core.Point{X: 162.5, Y: 797}, core.Point{X: 162.5, Y: 597}},
		{BottomRight, core.Point{X: 225, Y: 797}, core.Point{X: 225, Y: 597}},
	}
	for _, tt := range tests {
		t.Run(tt.edge.String(), func(t *testing.T) {
			assert.Equal(t, tt.down, tt.edge.Point(r, core.YDown))
			assert.Equal(t, tt.up, tt.edge.Point(r, core.YUp))
		})
	}
}

func TestParseAnchor(t *testing.T) {
	owner, edge, err := ParseAnchor("deviceBody.bottom-center")
	require.NoError(t, err)
	assert.Equal(t, "deviceBody", owner)
	assert.Equal(t, BottomCenter, edge)

	owner, edge, err = ParseAnchor("fig.1.top-left")
	require.NoError(t, err)
	assert.Equal(t, "fig.1", owner)
	assert.Equal(t, TopLeft, edge)

	for _, bad := range []string{"", "body", ".top-left", "body."} {
		_, _, err := ParseAnchor(bad)
		assert.ErrorIs(t, err, ErrUnknownAnchor, bad)
	}
	_, _, err = ParseAnchor("body.nowhere")
	assert.ErrorIs(t, err, ErrUnknownEdge)

	for _, e := range Edges() {
		_, parsed, err := ParseAnchor(AnchorName("x", e))
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
}
