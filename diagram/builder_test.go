package diagram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic/core"
)

func text(s string) Text {
	return Text{Text: s, Font: core.Font{Size: 9}}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  error
	}{
		{
			name: "unknown anchor owner",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				b.AddArrowBetweenAnchors("a.bottom-center", "missing.top-center", DefaultArrowStyle())
			},
			want: ErrUnknownAnchor,
		},
		{
			name: "unknown edge",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				b.AddRegion(RegionSpec{Name: "b", Width: 10, Height: 10})
				b.AddArrowBetweenAnchors("a.middle", "b.top-center", DefaultArrowStyle())
			},
			want: ErrUnknownEdge,
		},
		{
			name: "malformed anchor",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				b.AddArrowBetweenAnchors("a", "a.top-center", DefaultArrowStyle())
			},
			want: ErrUnknownAnchor,
		},
		{
			name: "duplicate region name",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
			},
			want: ErrDuplicateName,
		},
		{
			name: "box named like a region",
			build: func(b *Builder) {
				r := b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				r.AddBox(Box{Name: "a", Width: 1, Height: 1})
			},
			want: ErrDuplicateName,
		},
		{
			name: "negative box size",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddBox(Box{Width: -1, Height: 1})
			},
			want: ErrNegativeSize,
		},
		{
			name: "negative region width",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Width: -10, Height: 10})
			},
			want: ErrNegativeSize,
		},
		{
			name: "zero font size",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddText(Text{Text: "x"})
			},
			want: ErrInvalidFontSize,
		},
		{
			name: "labelled separator",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddBox(Box{Width: 10, Labels: []Text{text("x")}})
			},
			want: ErrSeparatorLabel,
		},
		{
			name: "arrow to itself",
			build: func(b *Builder) {
				b.AddRegion(RegionSpec{Name: "a", Width: 10, Height: 10})
				b.AddArrowBetweenAnchors("a.center", "a.center", DefaultArrowStyle())
			},
			want: ErrDegenerateConnector,
		},
		{
			name: "zero length local arrow",
			build: func(b *Builder) {
				head := DefaultArrowHead
				b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddLine(Line{Start: core.Point{X: 1}, End: core.Point{X: 1}, Head: &head})
			},
			want: ErrDegenerateConnector,
		},
		{
			name: "title without size",
			build: func(b *Builder) {
				b.SetTitle(Text{Text: "Figure"})
			},
			want: ErrInvalidFontSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(612, 792)
			tt.build(b)
			doc, err := b.Build()
			assert.Nil(t, doc)
			require.ErrorIs(t, err, tt.want)
			var cerr *ConstructionError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestBuildInvalidPage(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 792},
		{"negative height", 612, -1},
		{"NaN width", nan, 792},
		{"NaN height", 612, nan},
		{"infinite width", inf, 792},
		{"negative infinite height", 612, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewBuilder(tt.width, tt.height).Build()
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrInvalidPage)
		})
	}
}

func TestBuildRejectsNonFiniteValues(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name  string
		build func(b *Builder)
		want  error
	}{
		{"NaN region width", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: nan, Height: 10})
		}, ErrNegativeSize},
		{"infinite region height", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: inf})
		}, ErrNegativeSize},
		{"NaN gap", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10, Gap: nan})
		}, ErrNegativeSize},
		{"infinite border", func(b *Builder) {
			border := core.Stroke{Width: inf}
			b.AddRegion(RegionSpec{Width: 10, Height: 10, Border: &border})
		}, ErrNegativeSize},
		{"NaN region origin", func(b *Builder) {
			b.AddRegion(RegionSpec{Origin: core.Point{X: nan}, Width: 10, Height: 10})
		}, ErrInvalidCoordinate},
		{"infinite box width", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddBox(Box{Width: inf, Height: 1})
		}, ErrNegativeSize},
		{"NaN box height", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddBox(Box{Width: 1, Height: nan})
		}, ErrNegativeSize},
		{"NaN dash", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddBox(Box{Width: 1, Height: 1, Stroke: core.Stroke{Width: 1, Dash: []float64{nan}}})
		}, ErrNegativeSize},
		{"NaN font size", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddText(Text{Text: "x", Font: core.Font{Size: nan}})
		}, ErrInvalidFontSize},
		{"infinite font size", func(b *Builder) {
			b.SetTitle(Text{Text: "x", Font: core.Font{Size: inf}})
		}, ErrInvalidFontSize},
		{"NaN line height", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddText(Text{Text: "x", Font: core.Font{Size: 9}, LineHeight: nan})
		}, ErrNegativeSize},
		{"infinite line end", func(b *Builder) {
			b.AddRegion(RegionSpec{Width: 10, Height: 10}).AddLine(Line{End: core.Point{Y: inf}})
		}, ErrInvalidCoordinate},
		{"NaN connector point", func(b *Builder) {
			b.AddConnector(Connector{From: At(nan, 0), To: At(1, 1)})
		}, ErrInvalidCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(612, 792)
			tt.build(b)
			doc, err := b.Build()
			assert.Nil(t, doc)
			require.ErrorIs(t, err, tt.want)
			var cerr *ConstructionError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestBuildLateBoundAnchor(t *testing.T) {
	b := NewBuilder(612, 792)
	b.AddArrowBetweenAnchors("first.bottom-center", "later.top-center", DefaultArrowStyle())
	b.AddRegion(RegionSpec{Name: "first", Width: 10, Height: 10})
	nested := b.AddRegion(RegionSpec{Name: "outer", Width: 100, Height: 100})
	nested.AddBox(Box{Name: "later", Width: 10, Height: 10})

	doc, err := b.Build()
	require.NoError(t, err)
	require.Len(t, doc.Connectors(), 1)
	assert.Equal(t, "later.top-center", doc.Connectors()[0].To.Anchor)
}

func TestRemoveLastIsIdempotentWithReAdd(t *testing.T) {
	b := NewBuilder(200, 200)
	r := b.AddRegion(RegionSpec{Name: "steps", Width: 100, Sizing: SizeAuto, Flow: FlowStack, Gap: 4})
	r.AddBox(Box{Name: "s1", Width: 100, Height: 20})
	r.AddBox(Box{Name: "s2", Width: 100, Height: 20})

	before, err := b.Build()
	require.NoError(t, err)

	require.True(t, r.RemoveLast())
	assert.Equal(t, 1, r.Len())
	r.AddBox(Box{Name: "s2", Width: 100, Height: 20})

	after, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, before.Regions(), after.Regions())

	empty := b.AddRegion(RegionSpec{Width: 1, Height: 1})
	assert.False(t, empty.RemoveLast())
}

func TestDocumentIsImmutable(t *testing.T) {
	b := NewBuilder(200, 200)
	border := core.Stroke{Width: 1, Dash: []float64{2, 1}}
	r := b.AddRegion(RegionSpec{Name: "a", Width: 100, Height: 50, Border: &border})
	r.AddBox(Box{Name: "box", Width: 10, Height: 10, Labels: []Text{text("x")}})

	doc, err := b.Build()
	require.NoError(t, err)

	// Changes to the builder's inputs do not reach the document.
	border.Dash[0] = 9
	r.AddBox(Box{Name: "added", Width: 1, Height: 1})

	regions := doc.Regions()
	require.Len(t, regions[0].Children, 1)
	assert.Equal(t, 2.0, regions[0].Border.Dash[0])

	// Nor do changes to the copies it hands out.
	regions[0].Children[0].(Box).Labels[0].Text = "y"
	regions[0].Width = 1
	again := doc.Regions()
	assert.Equal(t, 100.0, again[0].Width)
	assert.Equal(t, "x", again[0].Children[0].(Box).Labels[0].Text)
}

func TestAddTable(t *testing.T) {
	b := NewBuilder(612, 792)
	page := b.AddRegion(RegionSpec{Name: "page", Width: 612, Height: 792})
	table := page.AddTable(TableSpec{
		Name:      "refs",
		Origin:    core.Point{X: 50, Y: 100},
		Columns:   []float64{40, 120},
		RowHeight: 16,
		Rows: [][]string{
			{"Ref", "Component"},
			{"501", "Sensor"},
			{"502"},
		},
		Header: true,
		Font:   core.Font{Size: 8},
		Stroke: core.DefaultStroke,
	})
	assert.Equal(t, "refs", table.Name())
	assert.Equal(t, 3, table.Len())

	doc, err := b.Build()
	require.NoError(t, err)

	refs := doc.Regions()[0].Children[0].(Region)
	assert.Equal(t, 160.0, refs.Width)
	assert.Equal(t, SizeAuto, refs.Sizing)
	assert.Equal(t, FlowStack, refs.Flow)
	require.Len(t, refs.Children, 3)

	header := refs.Children[0].(Region)
	require.Len(t, header.Children, 2)
	cell := header.Children[1].(Box)
	assert.Equal(t, 40.0, cell.Origin.X)
	assert.Equal(t, 120.0, cell.Width)
	require.Len(t, cell.Labels, 1)
	assert.Equal(t, core.Bold, cell.Labels[0].Font.Role)
	assert.True(t, cell.Labels[0].Middle)

	body := refs.Children[1].(Region).Children[0].(Box)
	assert.Equal(t, core.Regular, body.Labels[0].Font.Role)

	missing := refs.Children[2].(Region).Children[1].(Box)
	assert.Empty(t, missing.Labels)
}
