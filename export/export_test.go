package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"schematic/canvas"
	"schematic/core"
	"schematic/diagram"
	"schematic/font"
	"schematic/render"
)

func sampleDocument(t *testing.T) *diagram.Document {
	t.Helper()
	b := diagram.NewBuilder(120, 60)
	r := b.AddRegion(diagram.RegionSpec{
		Name:   "body",
		Origin: core.Point{X: 6, Y: 12},
		Width:  60,
		Height: 36,
	})
	r.AddBox(diagram.Box{
		Name:   "part",
		Width:  60,
		Height: 36,
		Stroke: core.DefaultStroke,
		Labels: []diagram.Text{{Text: "501", Font: core.Font{Size: 8}, Align: core.AlignBox, Middle: true}},
	})
	b.AddConnector(diagram.Connector{
		From:  diagram.AnchorRef("part.right-center"),
		To:    diagram.At(108, 30),
		Style: diagram.DefaultArrowStyle(),
	})
	doc, err := b.Build()
	require.NoError(t, err)
	return doc
}

func mono(t *testing.T) font.Provider {
	t.Helper()
	m, err := font.NewMono()
	require.NoError(t, err)
	return m
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{"txt", FormatASCII, false},
		{"text", FormatASCII, false},
		{"json", FormatJSON, false},
		{"mp", FormatMsgpack, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryFormatHasAnExporter(t *testing.T) {
	descriptions := FormatDescriptions()
	for _, f := range AvailableFormats() {
		t.Run(string(f), func(t *testing.T) {
			assert.NotEmpty(t, descriptions[f])
			e, err := NewExporter(f, Options{Metrics: mono(t)})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(e.FileExtension(), "."))
			assert.NotEmpty(t, e.FormatName())
			assert.NotEmpty(t, e.ContentType())
		})
	}

	_, err := NewExporter("pdf", Options{Metrics: mono(t)})
	assert.Error(t, err)
}

func TestSVGExport(t *testing.T) {
	e, err := NewExporter(FormatSVG, Options{Metrics: mono(t)})
	require.NoError(t, err)

	data, res, err := e.Export(sampleDocument(t))
	require.NoError(t, err)
	assert.False(t, res.HasOverflow())

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="120pt"`)
	assert.Contains(t, out, ">501</text>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestPNGExport(t *testing.T) {
	m, err := font.NewGoMetrics()
	require.NoError(t, err)
	e, err := NewExporter(FormatPNG, Options{Metrics: m, PNGScale: 2})
	require.NoError(t, err)

	data, _, err := e.Export(sampleDocument(t))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestASCIIExport(t *testing.T) {
	e, err := NewExporter(FormatASCII, Options{Metrics: mono(t)})
	require.NoError(t, err)

	data, res, err := e.Export(sampleDocument(t))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Calls, "box, label, shaft and two head strokes")

	out := string(data)
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")
	assert.Contains(t, out, "501")
}

func TestDisplayListExport(t *testing.T) {
	doc := sampleDocument(t)

	je, err := NewExporter(FormatJSON, Options{Metrics: mono(t)})
	require.NoError(t, err)
	jdata, _, err := je.Export(doc)
	require.NoError(t, err)

	var fromJSON canvas.DisplayList
	require.NoError(t, json.Unmarshal(jdata, &fromJSON))
	assert.Equal(t, 120.0, fromJSON.Width)

	me, err := NewExporter(FormatMsgpack, Options{Metrics: mono(t)})
	require.NoError(t, err)
	mdata, _, err := me.Export(doc)
	require.NoError(t, err)

	var fromMsgpack canvas.DisplayList
	require.NoError(t, msgpack.Unmarshal(mdata, &fromMsgpack))

	assert.Equal(t, fromJSON, fromMsgpack, "both encodings carry the same calls")
	ops := make([]string, len(fromJSON.Calls))
	for i, c := range fromJSON.Calls {
		ops[i] = c.Op
	}
	assert.Equal(t, []string{canvas.OpRect, canvas.OpText, canvas.OpLine, canvas.OpLine, canvas.OpLine, canvas.OpFinish}, ops)
}

func TestStrictExport(t *testing.T) {
	b := diagram.NewBuilder(50, 50)
	b.AddRegion(diagram.RegionSpec{Name: "wide", Width: 80, Height: 10})
	doc, err := b.Build()
	require.NoError(t, err)

	lenient, err := NewExporter(FormatSVG, Options{Metrics: mono(t)})
	require.NoError(t, err)
	_, res, err := lenient.Export(doc)
	require.NoError(t, err)
	assert.True(t, res.HasOverflow())

	strict, err := NewExporter(FormatSVG, Options{Metrics: mono(t), Strict: true})
	require.NoError(t, err)
	_, _, err = strict.Export(doc)
	assert.ErrorIs(t, err, render.ErrLayoutOverflow)
}

func TestMaxPageSize(t *testing.T) {
	doc := sampleDocument(t)
	for _, f := range AvailableFormats() {
		t.Run(string(f), func(t *testing.T) {
			limited, err := NewExporter(f, Options{Metrics: mono(t), MaxPageSize: 100})
			require.NoError(t, err)
			data, res, err := limited.Export(doc)
			assert.ErrorIs(t, err, ErrPageTooLarge)
			assert.Nil(t, data)
			assert.Nil(t, res)

			roomy, err := NewExporter(f, Options{Metrics: mono(t), MaxPageSize: 120})
			require.NoError(t, err)
			_, _, err = roomy.Export(doc)
			assert.NoError(t, err)
		})
	}
}
