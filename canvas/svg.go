package canvas

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"schematic/core"
)

// svgScale is the number of SVG user units per point. svgo takes integer
// coordinates, so the viewBox is scaled up to keep hundredths of a point.
const svgScale = 100

// SVG is a canvas that writes a single SVG document sized in points.
type SVG struct {
	out      *errWriter
	doc      *svg.SVG
	finished bool
}

// errWriter keeps the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// NewSVG starts an SVG document for a page of the given size in points.
func NewSVG(w io.Writer, width, height float64) *SVG {
	out := &errWriter{w: w}
	doc := svg.New(out)
	doc.StartviewUnit(
		int(math.Ceil(width)), int(math.Ceil(height)), "pt",
		0, 0, scaled(width), scaled(height),
	)
	return &SVG{out: out, doc: doc}
}

func scaled(v float64) int {
	return int(math.Round(v * svgScale))
}

func strokeStyle(s core.Stroke) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fill:none;stroke:%s;stroke-width:%d", s.Color.Hex(), scaled(s.Width))
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = fmt.Sprint(scaled(d))
		}
		sb.WriteString(";stroke-dasharray:")
		sb.WriteString(strings.Join(parts, ","))
	}
	return sb.String()
}

func textStyle(font core.Font, color core.Color) string {
	style := fmt.Sprintf("font-family:Go,sans-serif;font-size:%d;fill:%s", scaled(font.Size), color.Hex())
	switch font.Role {
	case core.Bold:
		style += ";font-weight:bold"
	case core.Italic:
		style += ";font-style:italic"
	}
	return style
}

func (s *SVG) check() error {
	if s.finished {
		return ErrFinished
	}
	return s.out.err
}

// DrawRect writes a <rect>.
func (s *SVG) DrawRect(x, y, width, height float64, stroke core.Stroke) error {
	if err := s.check(); err != nil {
		return err
	}
	s.doc.Rect(scaled(x), scaled(y), scaled(width), scaled(height), strokeStyle(stroke))
	return s.out.err
}

// DrawLine writes a <line>.
func (s *SVG) DrawLine(x1, y1, x2, y2 float64, stroke core.Stroke) error {
	if err := s.check(); err != nil {
		return err
	}
	s.doc.Line(scaled(x1), scaled(y1), scaled(x2), scaled(y2), strokeStyle(stroke))
	return s.out.err
}

// DrawText writes a <text> whose baseline starts at (x, y).
func (s *SVG) DrawText(x, y float64, text string, font core.Font, color core.Color) error {
	if err := s.check(); err != nil {
		return err
	}
	s.doc.Text(scaled(x), scaled(y), text, textStyle(font, color))
	return s.out.err
}

// FinishPage closes the document.
func (s *SVG) FinishPage() error {
	if err := s.check(); err != nil {
		return err
	}
	s.doc.End()
	s.finished = true
	return s.out.err
}
