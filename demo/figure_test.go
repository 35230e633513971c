package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic/canvas"
	"schematic/core"
	"schematic/diagram"
	"schematic/font"
	"schematic/render"
)

func TestFigureBuilds(t *testing.T) {
	doc, err := Figure()
	require.NoError(t, err)

	assert.Equal(t, core.YUp, doc.Orientation())
	assert.Len(t, doc.Regions(), 3)
	assert.Len(t, doc.Connectors(), 6)
}

func TestFigureRendersWithoutOverflow(t *testing.T) {
	doc, err := Figure()
	require.NoError(t, err)

	for _, name := range []string{font.ProviderGo, font.ProviderMono} {
		t.Run(name, func(t *testing.T) {
			metrics, err := font.New(name)
			require.NoError(t, err)

			rec := canvas.NewRecorder()
			res, err := render.New(metrics, render.WithStrict()).Render(doc, rec)
			require.NoError(t, err)
			assert.Empty(t, res.Overflows)
			assert.True(t, rec.Finished())

			texts := rec.Texts()
			require.NotEmpty(t, texts)
			assert.Equal(t, "FIG. 5", texts[0].Text)
		})
	}
}

func TestFigureAnchors(t *testing.T) {
	doc, err := Figure()
	require.NoError(t, err)

	metrics, err := font.NewMono()
	require.NoError(t, err)
	res, err := render.New(metrics).Render(doc, canvas.NewRecorder())
	require.NoError(t, err)

	tests := []struct {
		anchor string
		want   core.Point
	}{
		{"deviceBody.top-left", core.Point{X: 72, Y: 720}},
		{"deviceBody.bottom-center", core.Point{X: 182, Y: 520}},
		{"component501.center", core.Point{X: 114, Y: 681}},
		{"control504.top-left", core.Point{X: 84, Y: 642}},
		{"refs.top-left", core.Point{X: 84, Y: 580}},
		{"output.top-left", core.Point{X: 72, Y: 480}},
		{"display700.top-center", core.Point{X: 447, Y: 460}},
	}
	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			got, ok := res.Anchors[tt.anchor]
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}

	// Steps are stacked 14pt apart under the 10.8pt heading.
	step1 := res.Anchors["step601.top-left"]
	step2 := res.Anchors["step602.top-left"]
	assert.InDelta(t, 720-10.8-14, step1.Y, 1e-9)
	assert.InDelta(t, step1.Y-24-14, step2.Y, 1e-9)
	assert.InDelta(t, 360, step1.X, 1e-9)
}

func TestBuilderIsExtensible(t *testing.T) {
	b := Builder()
	b.AddArrowBetweenAnchors("component503.bottom-center", "refs.top-right", diagram.DefaultArrowStyle())
	doc, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, doc.Connectors(), 7)
}
