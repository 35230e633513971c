package importer

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"schematic/core"
	"schematic/diagram"
)

// fileDoc is the on-disk document. Points are written as [x, y].
type fileDoc struct {
	Page    pageSpec     `yaml:"page"`
	Title   *textSpec    `yaml:"title"`
	Regions []regionSpec `yaml:"regions"`
	Arrows  []arrowSpec  `yaml:"arrows"`
}

type pageSpec struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Orientation string  `yaml:"orientation"`
}

type fontSpec struct {
	Role string  `yaml:"role"`
	Size float64 `yaml:"size"`
}

type strokeSpec struct {
	Color string    `yaml:"color"`
	Width *float64  `yaml:"width"`
	Dash  []float64 `yaml:"dash"`
}

type textSpec struct {
	Text       string    `yaml:"text"`
	Origin     []float64 `yaml:"origin"`
	Font       fontSpec  `yaml:"font"`
	Color      string    `yaml:"color"`
	Align      string    `yaml:"align"`
	LineHeight float64   `yaml:"line_height"`
	Middle     bool      `yaml:"middle"`
}

type boxSpec struct {
	Name   string      `yaml:"name"`
	Origin []float64   `yaml:"origin"`
	Width  float64     `yaml:"width"`
	Height float64     `yaml:"height"`
	Stroke *strokeSpec `yaml:"stroke"`
	Labels []textSpec  `yaml:"labels"`
}

type lineSpec struct {
	Start  []float64   `yaml:"start"`
	End    []float64   `yaml:"end"`
	Stroke *strokeSpec `yaml:"stroke"`
	Head   headSpec    `yaml:"head"`
}

type tableSpec struct {
	Name      string      `yaml:"name"`
	Origin    []float64   `yaml:"origin"`
	Columns   []float64   `yaml:"columns"`
	RowHeight float64     `yaml:"row_height"`
	Rows      [][]string  `yaml:"rows"`
	Header    bool        `yaml:"header"`
	Font      fontSpec    `yaml:"font"`
	Stroke    *strokeSpec `yaml:"stroke"`
}

type regionSpec struct {
	Name     string      `yaml:"name"`
	Origin   []float64   `yaml:"origin"`
	Width    float64     `yaml:"width"`
	Height   *float64    `yaml:"height"`
	Sizing   string      `yaml:"sizing"`
	Flow     string      `yaml:"flow"`
	Gap      float64     `yaml:"gap"`
	Border   *strokeSpec `yaml:"border"`
	Title    *textSpec   `yaml:"title"`
	Children []childSpec `yaml:"children"`
}

// childSpec holds exactly one of its fields, keyed by the child kind.
type childSpec struct {
	Box    *boxSpec    `yaml:"box"`
	Text   *textSpec   `yaml:"text"`
	Line   *lineSpec   `yaml:"line"`
	Region *regionSpec `yaml:"region"`
	Table  *tableSpec  `yaml:"table"`
}

type arrowSpec struct {
	From   endpointSpec `yaml:"from"`
	To     endpointSpec `yaml:"to"`
	Stroke *strokeSpec  `yaml:"stroke"`
	Head   *headSpec    `yaml:"head"`
}

// headSpec is either a bool or {length, spread}, spread in degrees.
type headSpec struct {
	set    bool
	Length float64 `yaml:"length"`
	Spread float64 `yaml:"spread"`
}

func (h *headSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&h.set)
	}
	type plain headSpec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*h = headSpec(p)
	h.set = true
	return nil
}

func (h headSpec) arrowHead() *diagram.ArrowHead {
	if !h.set {
		return nil
	}
	head := diagram.DefaultArrowHead
	if h.Length > 0 {
		head.Length = h.Length
	}
	if h.Spread > 0 {
		head.Spread = h.Spread * math.Pi / 180
	}
	return &head
}

// endpointSpec is an anchor reference string or an [x, y] point.
type endpointSpec struct {
	diagram.Endpoint
}

func (e *endpointSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Endpoint = diagram.AnchorRef(value.Value)
		return nil
	}
	var pt []float64
	if err := value.Decode(&pt); err != nil {
		return err
	}
	p, err := point(pt)
	if err != nil {
		return err
	}
	e.Endpoint = diagram.Endpoint{Point: p}
	return nil
}

var errMissingChild = errors.New("child must have exactly one of box, text, line, region or table")

func decode(content []byte) (*fileDoc, error) {
	var file fileDoc
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &file, nil
}

func point(v []float64) (core.Point, error) {
	switch len(v) {
	case 0:
		return core.Point{}, nil
	case 2:
		return core.Point{X: v[0], Y: v[1]}, nil
	default:
		return core.Point{}, fmt.Errorf("point must be [x, y], got %v", v)
	}
}

func (f *fileDoc) build() (*diagram.Document, error) {
	o, err := core.ParseOrientation(f.Page.Orientation)
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(f.Page.Width, f.Page.Height, diagram.WithOrientation(o))

	if f.Title != nil {
		t, err := f.Title.text()
		if err != nil {
			return nil, fmt.Errorf("title: %w", err)
		}
		b.SetTitle(t)
	}

	for _, r := range f.Regions {
		rs, err := r.spec()
		if err != nil {
			return nil, err
		}
		if err := r.addChildren(b.AddRegion(rs)); err != nil {
			return nil, err
		}
	}

	for i, a := range f.Arrows {
		style := diagram.DefaultArrowStyle()
		if a.Stroke != nil {
			if style.Stroke, err = a.Stroke.stroke(); err != nil {
				return nil, fmt.Errorf("arrow %d: %w", i, err)
			}
		}
		if a.Head != nil {
			style.Head = a.Head.arrowHead()
		}
		b.AddConnector(diagram.Connector{From: a.From.Endpoint, To: a.To.Endpoint, Style: style})
	}

	return b.Build()
}

func (s *strokeSpec) stroke() (core.Stroke, error) {
	out := core.DefaultStroke
	if s == nil {
		return out, nil
	}
	if s.Color != "" {
		c, err := core.ParseColor(s.Color)
		if err != nil {
			return out, err
		}
		out.Color = c
	}
	if s.Width != nil {
		out.Width = *s.Width
	}
	out.Dash = s.Dash
	return out, nil
}

func (f fontSpec) font() (core.Font, error) {
	role, err := core.ParseFontRole(f.Role)
	if err != nil {
		return core.Font{}, err
	}
	return core.Font{Role: role, Size: f.Size}, nil
}

func (t *textSpec) text() (diagram.Text, error) {
	origin, err := point(t.Origin)
	if err != nil {
		return diagram.Text{}, err
	}
	font, err := t.Font.font()
	if err != nil {
		return diagram.Text{}, err
	}
	color, err := core.ParseColor(t.Color)
	if err != nil {
		return diagram.Text{}, err
	}
	align, err := core.ParseAlign(t.Align)
	if err != nil {
		return diagram.Text{}, err
	}
	return diagram.Text{
		Text:       t.Text,
		Origin:     origin,
		Font:       font,
		Color:      color,
		Align:      align,
		LineHeight: t.LineHeight,
		Middle:     t.Middle,
	}, nil
}

func (r *regionSpec) spec() (diagram.RegionSpec, error) {
	origin, err := point(r.Origin)
	if err != nil {
		return diagram.RegionSpec{}, fmt.Errorf("region %q: %w", r.Name, err)
	}
	spec := diagram.RegionSpec{
		Name:   r.Name,
		Origin: origin,
		Width:  r.Width,
		Gap:    r.Gap,
	}

	switch r.Sizing {
	case "auto":
		spec.Sizing = diagram.SizeAuto
	case "fixed":
		spec.Sizing = diagram.SizeFixed
	case "":
		if r.Height == nil {
			spec.Sizing = diagram.SizeAuto
		}
	default:
		return spec, fmt.Errorf("region %q: unknown sizing %q", r.Name, r.Sizing)
	}
	if r.Height != nil {
		spec.Height = *r.Height
	}

	switch r.Flow {
	case "", "free":
		spec.Flow = diagram.FlowFree
	case "stack":
		spec.Flow = diagram.FlowStack
	case "row":
		spec.Flow = diagram.FlowRow
	default:
		return spec, fmt.Errorf("region %q: unknown flow %q", r.Name, r.Flow)
	}

	if r.Border != nil {
		border, err := r.Border.stroke()
		if err != nil {
			return spec, fmt.Errorf("region %q border: %w", r.Name, err)
		}
		spec.Border = &border
	}
	if r.Title != nil {
		title, err := r.Title.text()
		if err != nil {
			return spec, fmt.Errorf("region %q title: %w", r.Name, err)
		}
		spec.Title = &title
	}
	return spec, nil
}

func (r *regionSpec) addChildren(h *diagram.RegionHandle) error {
	for i, c := range r.Children {
		if err := c.add(h); err != nil {
			return fmt.Errorf("region %q child %d: %w", r.Name, i, err)
		}
	}
	return nil
}

func (c childSpec) add(h *diagram.RegionHandle) error {
	set := 0
	for _, present := range []bool{c.Box != nil, c.Text != nil, c.Line != nil, c.Region != nil, c.Table != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return errMissingChild
	}

	switch {
	case c.Box != nil:
		box, err := c.Box.box()
		if err != nil {
			return err
		}
		h.AddBox(box)
	case c.Text != nil:
		t, err := c.Text.text()
		if err != nil {
			return err
		}
		h.AddText(t)
	case c.Line != nil:
		l, err := c.Line.line()
		if err != nil {
			return err
		}
		h.AddLine(l)
	case c.Region != nil:
		spec, err := c.Region.spec()
		if err != nil {
			return err
		}
		return c.Region.addChildren(h.AddRegion(spec))
	case c.Table != nil:
		spec, err := c.Table.spec()
		if err != nil {
			return err
		}
		h.AddTable(spec)
	}
	return nil
}

func (b *boxSpec) box() (diagram.Box, error) {
	origin, err := point(b.Origin)
	if err != nil {
		return diagram.Box{}, err
	}
	stroke, err := b.Stroke.stroke()
	if err != nil {
		return diagram.Box{}, err
	}
	box := diagram.Box{Name: b.Name, Origin: origin, Width: b.Width, Height: b.Height, Stroke: stroke}
	for _, l := range b.Labels {
		t, err := l.text()
		if err != nil {
			return diagram.Box{}, fmt.Errorf("box %q label: %w", b.Name, err)
		}
		box.Labels = append(box.Labels, t)
	}
	return box, nil
}

func (l *lineSpec) line() (diagram.Line, error) {
	start, err := point(l.Start)
	if err != nil {
		return diagram.Line{}, err
	}
	end, err := point(l.End)
	if err != nil {
		return diagram.Line{}, err
	}
	stroke, err := l.Stroke.stroke()
	if err != nil {
		return diagram.Line{}, err
	}
	return diagram.Line{Start: start, End: end, Stroke: stroke, Head: l.Head.arrowHead()}, nil
}

func (t *tableSpec) spec() (diagram.TableSpec, error) {
	origin, err := point(t.Origin)
	if err != nil {
		return diagram.TableSpec{}, err
	}
	font, err := t.Font.font()
	if err != nil {
		return diagram.TableSpec{}, err
	}
	stroke, err := t.Stroke.stroke()
	if err != nil {
		return diagram.TableSpec{}, err
	}
	return diagram.TableSpec{
		Name:      t.Name,
		Origin:    origin,
		Columns:   t.Columns,
		RowHeight: t.RowHeight,
		Rows:      t.Rows,
		Header:    t.Header,
		Font:      font,
		Stroke:    stroke,
	}, nil
}
